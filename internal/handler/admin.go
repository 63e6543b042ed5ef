package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/save-n-serve/internal/auth"
	"github.com/iliyamo/save-n-serve/internal/model"
	"github.com/iliyamo/save-n-serve/internal/repository"
)

// AdminHandler bundles dependencies for the admin endpoints. Admins manage
// the seller approval lifecycle and can inspect or remove accounts of both
// other roles.
type AdminHandler struct {
	Admins  *repository.AdminRepo
	Sellers *repository.SellerRepo
	Buyers  *repository.BuyerRepo
	Auth    *auth.Service
}

func NewAdminHandler(admins *repository.AdminRepo, sellers *repository.SellerRepo, buyers *repository.BuyerRepo, svc *auth.Service) *AdminHandler {
	return &AdminHandler{Admins: admins, Sellers: sellers, Buyers: buyers, Auth: svc}
}

type adminLoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminPart struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type adminLoginResp struct {
	Token string     `json:"token"`
	Admin adminPart  `json:"admin"`
	Role  model.Role `json:"role"`
}

// Login verifies admin credentials. The username field also accepts the
// admin's email address. Admin tokens carry no user_id claim.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return authError(c, err)
	}
	a, err := h.Admins.GetByUsername(ctx, sess.Account.Identifier)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, adminLoginResp{
		Token: sess.Token,
		Admin: adminPart{ID: a.ID, Username: a.Username, Email: a.Email},
		Role:  model.RoleAdmin,
	})
}

// ForgotPassword starts the reset flow for an admin email.
func (h *AdminHandler) ForgotPassword(c echo.Context) error {
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

// ResetPassword consumes an admin reset token.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
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

// ----- seller lifecycle -----

// ListSellers returns every seller record.
func (h *AdminHandler) ListSellers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	sellers, err := h.Sellers.List(ctx)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sellerViews(sellers))
}

// PendingSellers returns sellers awaiting approval.
func (h *AdminHandler) PendingSellers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	sellers, err := h.Sellers.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sellerViews(sellers))
}

// ApproveSeller moves a seller to APPROVED, unlocking login.
func (h *AdminHandler) ApproveSeller(c echo.Context) error {
	return h.setSellerStatus(c, model.StatusApproved, "seller approved successfully")
}

// RejectSeller moves a seller to REJECTED.
func (h *AdminHandler) RejectSeller(c echo.Context) error {
	return h.setSellerStatus(c, model.StatusRejected, "seller rejected successfully")
}

func (h *AdminHandler) setSellerStatus(c echo.Context, status model.SellerStatus, msg string) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seller id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Sellers.UpdateStatus(ctx, id, status); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// AddSeller creates a pre-approved seller without the self-service flow.
func (h *AdminHandler) AddSeller(c echo.Context) error {
	var req sellerRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
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
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
		Location:     req.Location,
		MobileNo:     req.MobileNo,
		NationalID:   req.NationalID,
		Status:       model.StatusApproved,
	})
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "seller added successfully", "id": id})
}

// DeleteSeller removes a seller account.
func (h *AdminHandler) DeleteSeller(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seller id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Sellers.Delete(ctx, id); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "seller deleted successfully"})
}

// ----- buyer management -----

// ListBuyers returns every buyer record.
func (h *AdminHandler) ListBuyers(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	buyers, err := h.Buyers.List(ctx)
	if err != nil {
		return authError(c, err)
	}
	out := make([]buyerPart, 0, len(buyers))
	for i := range buyers {
		out = append(out, buyerView(&buyers[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// DeleteBuyer removes a buyer account.
func (h *AdminHandler) DeleteBuyer(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid buyer id"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Buyers.Delete(ctx, id); err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "buyer deleted successfully"})
}

func sellerViews(sellers []model.Seller) []sellerPart {
	out := make([]sellerPart, 0, len(sellers))
	for i := range sellers {
		out = append(out, sellerView(&sellers[i]))
	}
	return out
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
