package handler

import (
	"context"
	"net/http"

	"github.com/Oddscorp-AI/banking-transfer/common"
	"github.com/Oddscorp-AI/banking-transfer/model"
)

type Registrar interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
}

type Authenticator interface {
	Login(ctx context.Context, email, password string, role model.Role) (string, error)
}

type UserHandler struct {
	users Registrar
	auth  Authenticator
}

func NewUserHandler(users Registrar, auth Authenticator) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Register godoc
// @Summary      Register an online banking customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "Customer details"
// @Success      201  {object}  model.User
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Email or citizen id already registered"
// @Router       /api/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		return serviceError(err, "Could not register user")
	}

	common.WriteJSON(w, http.StatusCreated, user)
	return nil
}

// Login godoc
// @Summary      Customer login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Email and password"
// @Success      200  {object}  model.TokenResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.login(w, r, model.RoleCustomer)
}

// TellerLogin godoc
// @Summary      Teller login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Email and password"
// @Success      200  {object}  model.TokenResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/teller/login [post]
func (h *UserHandler) TellerLogin(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.login(w, r, model.RoleTeller)
}

func (h *UserHandler) login(w http.ResponseWriter, r *http.Request, role model.Role) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(w, r, &req); err != nil {
		return err
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		return serviceError(err, "Could not log in")
	}

	common.WriteJSON(w, http.StatusOK, model.TokenResponse{Token: token})
	return nil
}
