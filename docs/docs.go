// Package docs holds the OpenAPI description served under /swagger/.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an online banking customer",
                "parameters": [
                    {"description": "Customer details", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "409": {"description": "Email or citizen id already registered", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Customer login",
                "parameters": [
                    {"description": "Email and password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/auth/teller/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Teller login",
                "parameters": [
                    {"description": "Email and password", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "A teller opens an account for a citizen. The optional initial deposit becomes the opening balance.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Open a bank account",
                "parameters": [
                    {"description": "Account holder details", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CreateAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "Caller is not a teller", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "503": {"description": "No free account number could be allocated", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts/{accountNumber}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Show one of the caller's accounts",
                "parameters": [
                    {"type": "string", "description": "Account number", "name": "accountNumber", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Account"}},
                    "403": {"description": "Account belongs to someone else", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts/{accountNumber}/deposit": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Deposit cash at the counter",
                "parameters": [
                    {"type": "string", "description": "Account number", "name": "accountNumber", "in": "path", "required": true},
                    {"description": "Amount to deposit", "name": "deposit", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.DepositRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Account"}},
                    "400": {"description": "Amount below the minimum or finer than two decimal places", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "409": {"description": "Concurrent update, retry", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts/{accountNumber}/transfer": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Moves money from the caller's account in the path to to_account. Requires the caller's PIN.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Transfer money to another account",
                "parameters": [
                    {"type": "string", "description": "Source account number", "name": "accountNumber", "in": "path", "required": true},
                    {"description": "Transfer details", "name": "transfer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.TransferRequest"}}
                ],
                "responses": {
                    "200": {"description": "Source account after the transfer", "schema": {"$ref": "#/definitions/model.Account"}},
                    "400": {"description": "Invalid amount or same account", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "Not the owner, or wrong PIN", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "409": {"description": "Concurrent update, retry", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "422": {"description": "Insufficient balance or daily limit exceeded", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/api/accounts/{accountNumber}/statement": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Monthly account statement",
                "parameters": [
                    {"type": "string", "description": "Account number", "name": "accountNumber", "in": "path", "required": true},
                    {"description": "Month (YYYY-MM) and PIN", "name": "statement", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.StatementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.StatementEntry"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "model.Account": {
            "type": "object",
            "properties": {
                "account_number": {"type": "string"},
                "citizen_id": {"type": "string"},
                "thai_name": {"type": "string"},
                "english_name": {"type": "string"},
                "balance": {"type": "string"},
                "version": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "model.CreateAccountRequest": {
            "type": "object",
            "required": ["citizen_id", "english_name", "thai_name"],
            "properties": {
                "citizen_id": {"type": "string"},
                "thai_name": {"type": "string"},
                "english_name": {"type": "string"},
                "initial_deposit": {"type": "string"}
            }
        },
        "model.DepositRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "string"}
            }
        },
        "model.TransferRequest": {
            "type": "object",
            "required": ["pin", "to_account"],
            "properties": {
                "to_account": {"type": "string"},
                "amount": {"type": "string"},
                "pin": {"type": "string"}
            }
        },
        "model.StatementRequest": {
            "type": "object",
            "required": ["month", "pin"],
            "properties": {
                "month": {"type": "string"},
                "pin": {"type": "string"}
            }
        },
        "model.StatementEntry": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "time": {"type": "string"},
                "code": {"type": "string"},
                "channel": {"type": "string"},
                "debit_credit": {"type": "string"},
                "balance": {"type": "string"},
                "remark": {"type": "string"}
            }
        },
        "model.RegisterRequest": {
            "type": "object",
            "required": ["citizen_id", "email", "english_name", "password", "pin", "thai_name"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "citizen_id": {"type": "string"},
                "thai_name": {"type": "string"},
                "english_name": {"type": "string"},
                "pin": {"type": "string"}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "model.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "email": {"type": "string"},
                "citizen_id": {"type": "string"},
                "thai_name": {"type": "string"},
                "english_name": {"type": "string"},
                "role": {"type": "string"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Banking Transfer API",
	Description:      "Accounts, deposits, transfers and monthly statements over a PostgreSQL ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
