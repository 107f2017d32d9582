package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/interface/middleware"
	"github.com/oksasatya/go-user-registration/pkg/i18n"
	"github.com/oksasatya/go-user-registration/pkg/response"
	"github.com/oksasatya/go-user-registration/pkg/validation"
)

type UserHandler struct {
	Svc      *userapp.Service
	Messages userapp.Messages
	Logger   *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, messages userapp.Messages, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Messages: messages, Logger: logger}
}

// Phone fields are free-form and may be partial. email carries no binding tag: its format is checked by the service so that a bad
// address surfaces as InvalidEmail rather than a generic payload error.
type registerRequest struct {
	Name     string         `json:"name" binding:"notblank"`
	Email    string         `json:"email"`
	Password string         `json:"password" binding:"notblank"`
	Phones   []phoneRequest `json:"phones"`
}

type phoneRequest struct {
	Number      string `json:"number"`
	CityCode    string `json:"citycode"`
	CountryCode string `json:"countrycode"`
}

func (r registerRequest) toInput() userapp.RegisterInput {
	phones := make([]userapp.PhoneDTO, 0, len(r.Phones))
	for _, p := range r.Phones {
		phones = append(phones, userapp.PhoneDTO{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	return userapp.RegisterInput{Name: r.Name, Email: r.Email, Password: r.Password, Phones: phones}
}

// Register godoc
// @Summary      Register a user
// @Description  Validates the email, stores the user with its phones and returns it with an access token.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest       true  "New user"
// @Success      200   {object}  userapp.UserResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      409   {object}  response.ErrorBody
// @Failure      500   {object}  response.ErrorBody
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, h.Messages.Message(i18n.RequestInvalidPayload), validation.ToDetails(err))
		return
	}

	res, err := h.Svc.RegisterUser(c.Request.Context(), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the user the bearer token was issued to.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userapp.UserResponse
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	res, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.UserEmailKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// writeError maps service error kinds to status codes. Anything unknown is a 500;
// unexpected errors keep their cause in the message for diagnostics.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	var appErr *userapp.Error
	if !errors.As(err, &appErr) {
		h.Logger.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("unclassified service error")
		response.Error(c, http.StatusInternalServerError, h.Messages.Message(i18n.ErrorUnexpected), nil)
		return
	}

	switch {
	case errors.Is(appErr, userapp.ErrInvalidEmail):
		response.Error(c, http.StatusBadRequest, appErr.Message, nil)
	case errors.Is(appErr, userapp.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, appErr.Message, nil)
	case errors.Is(appErr, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, appErr.Message, nil)
	default:
		response.Error(c, http.StatusInternalServerError, appErr.Error(), nil)
	}
}
