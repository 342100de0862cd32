package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/cart"
	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/httpx"
	"github.com/MikeMC777/leathershop/internal/order"
)

// addToCartRequest is resolved against the catalog; the client never sets
// the price.
type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Variation string `json:"variation"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

func cartView(items []domain.CartItem) cartResponse {
	return cartResponse{Items: items, Count: cart.Count(items), Subtotal: cart.Subtotal(items)}
}

func getCartHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.cart.Items(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(items))
	}
}

// addToCartHandler godoc
// @Summary  Add a product line to the cart
// @Tags     cart
// @Accept   json
// @Produce  json
// @Success  200 {object} cartResponse
// @Failure  400 {object} httpx.HTTPError
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/cart [post]
func addToCartHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addToCartRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "product_id required")
			return
		}
		ctx := c.Request.Context()
		p, _, err := a.catalog.Get(ctx, in.ProductID)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !p.HasVariation(in.Variation) {
			httpx.BadRequest(c, fmt.Sprintf("unknown variation %q", in.Variation))
			return
		}
		items, err := a.cart.Add(ctx, domain.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Variation: in.Variation,
			Quantity:  in.Quantity,
			Price:     p.Price,
			Image:     p.Image(),
		})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(items))
	}
}

func updateCartHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in updateCartRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		items, err := a.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), in.Quantity)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(items))
	}
}

func removeFromCartHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.cart.Remove(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cartView(items))
	}
}

func clearCartHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.cart.Clear(c.Request.Context()); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// checkoutHandler godoc
// @Summary  Place an order from the cart
// @Description The shipping fee follows the zone; the cart is emptied with the same write.
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body  body  order.CustomerRequest  true  "customer"
// @Success  201 {object} domain.Order
// @Failure  400 {object} httpx.HTTPError
// @Failure  409 {object} httpx.HTTPError
// @Router   /api/checkout [post]
func checkoutHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		o, err := a.orders.Checkout(c.Request.Context(), in.Customer())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// quickOrderHandler godoc
// @Summary  Order one product directly
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body  body  order.QuickOrderRequest  true  "order"
// @Success  201 {object} domain.Order
// @Failure  400 {object} httpx.HTTPError
// @Failure  404 {object} httpx.HTTPError
// @Failure  409 {object} httpx.HTTPError
// @Router   /api/orders/quick [post]
func quickOrderHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.QuickOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		if strings.TrimSpace(in.ProductID) == "" {
			httpx.BadRequest(c, "product_id required")
			return
		}
		o, err := a.orders.QuickOrder(c.Request.Context(), in.ProductID, in.Variation, in.Quantity, in.Customer())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// trackHandler godoc
// @Summary  Look up an order by id and phone
// @Tags     orders
// @Produce  json
// @Param    id     query  string  true  "order id, with or without #"
// @Param    phone  query  string  true  "phone digits"
// @Success  200 {object} order.TrackResponse
// @Failure  404 {object} order.TrackResponse
// @Router   /api/orders/track [get]
func trackHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, found, err := a.orders.Find(c.Request.Context(), c.Query("id"), c.Query("phone"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, order.TrackResponse{Error: "no order matches that id and phone"})
			return
		}
		c.JSON(http.StatusOK, order.TrackResponse{Found: true, Order: &o})
	}
}

// statusParam parses an optional status filter. Blank means any status.
func statusParam(raw string) (domain.OrderStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return domain.ParseOrderStatus(raw)
}
