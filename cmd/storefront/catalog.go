package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/leathershop/internal/coupon"
	"github.com/MikeMC777/leathershop/internal/domain"
	"github.com/MikeMC777/leathershop/internal/httpx"
	"github.com/MikeMC777/leathershop/internal/product"
)

// listProductsHandler godoc
// @Summary  Storefront product listing
// @Tags     products
// @Produce  json
// @Param    q          query  string  false  "name or category"
// @Param    max_price  query  number  false  "price ceiling"
// @Param    sort       query  string  false  "newest | price-low | price-high"
// @Param    offer      query  string  false  "hot-deals"
// @Success  200 {object} product.ListResponse
// @Failure  400 {object} httpx.HTTPError
// @Router   /api/products [get]
func listProductsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := product.Query{
			Q:        strings.TrimSpace(c.Query("q")),
			HotDeals: c.Query("offer") == "hot-deals",
			Sort:     product.SortNewest,
		}
		switch s := product.Sort(c.Query("sort")); s {
		case "", product.SortNewest:
		case product.SortPriceLow, product.SortPriceHigh:
			q.Sort = s
		default:
			httpx.BadRequest(c, "sort must be newest, price-low or price-high")
			return
		}
		if raw := c.Query("max_price"); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil || d.IsNegative() {
				httpx.BadRequest(c, "max_price must be a non-negative number")
				return
			}
			q.MaxPrice = &d
		}

		items, err := a.catalog.List(c.Request.Context(), q)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product.ListResponse{Q: q.Q, Sort: q.Sort, Total: len(items), Items: items})
	}
}

func featuredHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.catalog.Featured(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// getProductHandler godoc
// @Summary  Product detail with related products
// @Tags     products
// @Produce  json
// @Param    id   path  string  true  "product id"
// @Success  200 {object} product.DetailResponse
// @Failure  404 {object} httpx.HTTPError
// @Router   /api/products/{id} [get]
func getProductHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, related, err := a.catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, product.DetailResponse{Product: p, Related: related})
	}
}

func listCategoriesHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := a.catalog.Categories(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": categories})
	}
}

func getSettingsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := a.store.Settings(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// checkCouponHandler reports whether a code can currently be applied.
// Nothing is redeemed.
func checkCouponHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, ok, err := a.coupons.Usable(c.Request.Context(), c.Param("code"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"valid": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true, "coupon": cp})
	}
}

//
// ---------- admin catalog ----------
//

func adminProductsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.catalog.All(c.Request.Context(), c.Query("q"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body  body  product.ProductRequest  true  "product"
// @Success  201 {object} domain.Product
// @Failure  400 {object} httpx.HTTPError
// @Failure  401 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /api/admin/products [post]
func createProductHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.ProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		p, err := a.catalog.Create(c.Request.Context(), in.Product(""))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.ProductRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		id := c.Param("id")
		p, err := a.catalog.Update(c.Request.Context(), id, in.Product(id))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func replaceProductsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in []domain.Product
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		items, err := a.catalog.Replace(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func deleteProductHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func toggleProductHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := a.catalog.ToggleVisibility(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createCategoryHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CategoryRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cat, err := a.catalog.CreateCategory(c.Request.Context(), domain.Category{Name: in.Name, Image: in.Image})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CategoryRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cat, err := a.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), domain.Category{Name: in.Name, Image: in.Image})
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func replaceCategoriesHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in []domain.Category
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		items, err := a.catalog.ReplaceCategories(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func deleteCategoryHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCouponsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.coupons.List(c.Request.Context())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func createCouponHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in coupon.Request
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cp, err := a.coupons.Create(c.Request.Context(), in.Coupon())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, cp)
	}
}

func updateCouponHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in coupon.Request
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		cp, err := a.coupons.Update(c.Request.Context(), c.Param("id"), in.Coupon())
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

func replaceCouponsHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in []domain.Coupon
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, "invalid json")
			return
		}
		items, err := a.coupons.Replace(c.Request.Context(), in)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func deleteCouponHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := a.coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func toggleCouponHandler(a *app) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := a.coupons.Toggle(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}
