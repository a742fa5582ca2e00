package controllers

import (
	"net/http"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/config"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/middleware"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthController owns the session cookies. Every cookie it writes follows
// the one CookieConfig it was built with.
type AuthController struct {
	auth    AuthServiceAPI
	cookies config.CookieConfig
}

func NewAuthController(auth AuthServiceAPI, cookies config.CookieConfig) *AuthController {
	return &AuthController{auth: auth, cookies: cookies}
}

func (ac *AuthController) cookie(name, value string, maxAgeSeconds int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     ac.cookies.Path,
		Domain:   ac.cookies.Domain,
		MaxAge:   maxAgeSeconds,
		Secure:   ac.cookies.Secure,
		HttpOnly: ac.cookies.HTTPOnly,
		SameSite: ac.cookies.SameSite,
	}
}

func (ac *AuthController) setSession(c *gin.Context, accessToken, refreshToken string) {
	http.SetCookie(c.Writer, ac.cookie(middleware.AccessTokenCookie, accessToken, int(ac.cookies.AccessMaxAge.Seconds())))
	http.SetCookie(c.Writer, ac.cookie(middleware.RefreshTokenCookie, refreshToken, int(ac.cookies.RefreshMaxAge.Seconds())))
}

func (ac *AuthController) clearSession(c *gin.Context) {
	http.SetCookie(c.Writer, ac.cookie(middleware.AccessTokenCookie, "", -1))
	http.SetCookie(c.Writer, ac.cookie(middleware.RefreshTokenCookie, "", -1))
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("All fields are required"))
		return
	}

	result, err := ac.auth.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	ac.setSession(c, result.AccessToken, result.RefreshToken)
	response.Created(c, result, "User registered successfully")
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("email is required"))
		return
	}

	result, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	ac.setSession(c, result.AccessToken, result.RefreshToken)
	response.OK(c, result, "User logged in successfully")
}

// Refresh takes the refresh token from its cookie or, failing that, the body.
func (ac *AuthController) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req RefreshRequest
		if err := bindJSON(c, &req); err != nil {
			c.Error(err)
			return
		}
		token = req.RefreshToken
	}

	result, err := ac.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}
	ac.setSession(c, result.AccessToken, result.RefreshToken)
	response.OK(c, gin.H{"accessToken": result.AccessToken, "refreshToken": result.RefreshToken}, "Access token refreshed")
}

func (ac *AuthController) Logout(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	if err := ac.auth.Logout(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	ac.clearSession(c)
	response.OK(c, gin.H{}, "user logged out")
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.BadRequest("oldPassword and newPassword are required"))
		return
	}
	if err := ac.auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		c.Error(err)
		return
	}
	response.OK(c, gin.H{}, "password changed successfully")
}

func (ac *AuthController) GetUser(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	user, err := ac.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, user, "user fetched successfully")
}

func (ac *AuthController) GetAllUsers(c *gin.Context) {
	users, err := ac.auth.GetAllUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, users, "all users fetched successfully")
}

func (ac *AuthController) GetReferredUsers(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	referred, err := ac.auth.GetReferredUsers(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.OK(c, referred, "Referred users fetched successfully")
}
