package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/middleware"
	"github.com/iliyamo/save-n-serve/internal/model"
	"github.com/iliyamo/save-n-serve/internal/repository"
)

// SellerHandler bundles dependencies for the seller endpoints.
type SellerHandler struct {
	Sellers *repository.SellerRepo
	Auth    *auth.Service
}

func NewSellerHandler(sellers *repository.SellerRepo, svc *auth.Service) *SellerHandler {
	return &SellerHandler{Sellers: sellers, Auth: svc}
}

// ----- DTOs -----

type sellerRegisterReq struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Location   string `json:"location"`
	MobileNo   string `json:"mobile_no"`
	NationalID string `json:"national_id"`
}

type sellerLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sellerUpdateReq struct {
	Email      string `json:"email"`
	Location   string `json:"location"`
	MobileNo   string `json:"mobile_no"`
	NationalID string `json:"national_id"`
}

type sellerPart struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Location   string             `json:"location"`
	MobileNo   string             `json:"mobile_no"`
	NationalID string             `json:"national_id"`
	Status     model.SellerStatus `json:"status"`
}

type sellerLoginResp struct {
	Token  string     `json:"token"`
	Seller sellerPart `json:"seller"`
	Role   model.Role `json:"role"`
}

func sellerView(s *model.Seller) sellerPart {
	return sellerPart{
		ID:         s.ID,
		Name:       s.Name,
		Username:   s.Username,
		Email:      s.Email,
		Location:   s.Location,
		MobileNo:   s.MobileNo,
		NationalID: s.NationalID,
		Status:     s.Status,
	}
}

// Register creates a seller account. The status is always forced to PENDING
// regardless of input; sellers need admin approval before their first login.
func (h *SellerHandler) Register(c echo.Context) error {
	var req sellerRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/username/email/password required"})
	}

	hash, err := h.Auth.HashPassword(req.Password)
	if err != nil {
		return authError(c, err)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	id, err := h.Sellers.Create(ctx, &model.Seller{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Location:     req.Location,
		MobileNo:     req.MobileNo,
		NationalID:   req.NationalID,
		Status:       model.StatusPending,
	})
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "seller registered successfully, awaiting approval",
		"id":      id,
	})
}

// Login verifies credentials. Sellers that are not APPROVED are rejected
// even with the right password.
func (h *SellerHandler) Login(c echo.Context) error {
	var req sellerLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return authError(c, err)
	}
	s, err := h.Sellers.GetByID(ctx, sess.Account.ID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sellerLoginResp{
		Token:  sess.Token,
		Seller: sellerView(s),
		Role:   model.RoleSeller,
	})
}

// ForgotPassword starts the reset flow for the given email.
func (h *SellerHandler) ForgotPassword(c echo.Context) error {
	email := resetEmail(c)
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Auth.RequestPasswordReset(ctx, email); err != nil {
		return authError(c, err)
	}
	return forgotPasswordResponse(c)
}

// ResetPassword consumes a reset token and stores the new password.
func (h *SellerHandler) ResetPassword(c echo.Context) error {
	token, newPassword := resetParams(c)
	if token == "" || newPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/new_password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, token, newPassword); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated successfully"})
}

// Update changes the seller's profile fields. Username, password and status
// are never altered through this path; a blank field keeps its value.
func (h *SellerHandler) Update(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok || p.UserID == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req sellerUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Sellers.GetByID(ctx, *p.UserID)
	if err != nil {
		return authError(c, err)
	}
	if req.Email != "" {
		s.Email = req.Email
	}
	if req.Location != "" {
		s.Location = req.Location
	}
	if req.MobileNo != "" {
		s.MobileNo = req.MobileNo
	}
	if req.NationalID != "" {
		s.NationalID = req.NationalID
	}
	if err := h.Sellers.UpdateProfile(ctx, s); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"seller":  sellerView(s),
	})
}

// Me returns the authenticated seller's record.
func (h *SellerHandler) Me(c echo.Context) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok || p.UserID == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	s, err := h.Sellers.GetByID(ctx, *p.UserID)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sellerView(s))
}
