// cmd/main.go
package main

import (
	"github.com/Oddscorp-AI/banking-transfer/app"
)

// @title           Banking Transfer API
// @version         1.0
// @description     Accounts, deposits, transfers and monthly statements over a PostgreSQL ledger.

// @contact.name   API Support
// @contact.email  support@example.com

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
