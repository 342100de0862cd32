package main

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/httpx"
	"github.com/MikeMC777/leathershop/internal/order"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type loginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// loginHandler godoc
// @Summary  Admin login
// @Tags     admin
// @Accept   json
// @Produce  json
// @Success  200 {object} loginResponse
// @Failure  400 {object} httpx.HTTPError
// @Failure  401 {object} httpx.HTTPError
// @Router   /api/admin/login [post]
func loginHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "email and password required")
			return
		}
		ctx := c.Request.Context()
		ok, err := a.gate.Login(ctx, in.Email, in.Password)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusUnauthorized, httpx.HTTPError{Error: "invalid email or password"})
			return
		}
		sess, err := a.gate.Session(ctx)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{User: sess.User, Token: sess.Token})
	}
}

func logoutHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.gate.Logout(c.Request.Context()); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func dashboardHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := a.orders.Stats(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func orderFilter(c *gin.Context) (order.Filter, bool) {
	status, err := statusParam(c.Query("status"))
	if err != nil {
		httpx.Fail(c, err)
		return order.Filter{}, false
	}
	return order.Filter{Status: status, Search: c.Query("q")}, true
}

// listOrdersHandler godoc
// @Summary  Admin order list, newest first
// @Tags     admin
// @Produce  json
// @Param    status  query  string  false  "Pending | Confirmed | Shipped | Delivered | Cancelled"
// @Param    q       query  string  false  "id, customer name or phone"
// @Success  200 {array} domain.Order
// @Failure  400 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /api/admin/orders [get]
func listOrdersHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := orderFilter(c)
		if !ok {
			return
		}
		orders, err := a.orders.List(c.Request.Context(), f)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": orders, "total": len(orders)})
	}
}

// exportOrdersHandler builds the workbook in memory so a failure can still
// be reported as JSON.
func exportOrdersHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := orderFilter(c)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := a.orders.ExportXLSX(c.Request.Context(), &buf, f); err != nil {
			httpx.Fail(c, err)
			return
		}
		name := "orders-" + time.Now().Format("2006-01-02") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func updateOrderStatusHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		status, err := domain.ParseOrderStatus(in.Status)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		o, err := a.orders.UpdateStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.orders.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func updateSettingsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.Settings
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		switch {
		case strings.TrimSpace(in.StoreName) == "":
			httpx.BadRequest(c, "store_name required")
			return
		case in.ShippingInner.IsNegative() || in.ShippingOuter.IsNegative():
			httpx.BadRequest(c, "shipping fees must not be negative")
			return
		}
		if err := a.store.SaveSettings(c.Request.Context(), in); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, in)
	}
}

type notificationsResponse struct {
	Unread int            `json:"unread"`
	Items  []domain.Order `json:"items"`
}

func notificationsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, notificationsResponse{Unread: a.inbox.Unread(), Items: a.inbox.Items()})
	}
}

func markReadHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		a.inbox.MarkRead()
		c.Status(http.StatusNoContent)
	}
}
