package catalog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"grocery.GO/api"
	"grocery.GO/app"
	"grocery.GO/core/apperr"
	brandService "grocery.GO/service/brand"
	catalogService "grocery.GO/service/catalog"
)

func init() {
	apperr.Register(catalogService.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	apperr.Register(catalogService.ErrUnknownCategory, apperr.CodeValidation, http.StatusUnprocessableEntity)
	apperr.Register(catalogService.ErrNoIndex, apperr.CodePrecondition, http.StatusConflict)
	apperr.Register(brandService.ErrNotFound, apperr.CodeNotFound, http.StatusNotFound)
	api.RegisterModule(RegisterCatalogRoutes)
}

// RegisterCatalogRoutes serves the store page: products, categories and brands.
func RegisterCatalogRoutes(g *echo.Group, a *app.App) {
	log := a.Log.Named("api.catalog")

	// GET /api/products?q=&category=&minPrice=&maxPrice=&brands=&ratings=&availability=&sort=
	g.GET("/products", func(c echo.Context) error {
		f, err := catalogService.ParseFilter(c.QueryParams())
		if err != nil {
			return api.BadRequest(c, err.Error())
		}
		products, err := a.Catalog.List(c.Request().Context(), f)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"products": products, "total": len(products)})
	})

	g.GET("/products/price-range", func(c echo.Context) error {
		r, err := a.Catalog.PriceRange(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, r)
	})

	g.GET("/products/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid product id")
		}
		p, err := a.Catalog.ByID(c.Request().Context(), id)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, p)
	})

	g.GET("/categories", func(c echo.Context) error {
		categories, err := a.Catalog.Categories(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"categories": categories})
	})

	// GET /api/brands?q=&category=
	g.GET("/brands", func(c echo.Context) error {
		ctx := c.Request().Context()
		q := strings.TrimSpace(c.QueryParam("q"))
		category := strings.TrimSpace(c.QueryParam("category"))
		var err error
		var out interface{}
		switch {
		case q != "":
			out, err = a.Brands.Search(ctx, q)
		case category != "":
			out, err = a.Brands.ByCategory(ctx, category)
		default:
			out, err = a.Brands.All(ctx)
		}
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"brands": out})
	})

	g.GET("/brands/popular", func(c echo.Context) error {
		brands, err := a.Brands.Popular(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"brands": brands})
	})

	g.GET("/brands/categories", func(c echo.Context) error {
		categories, err := a.Brands.Categories(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"categories": categories})
	})

	// GET /api/brands/names lists the brand facet of the store page, "Generic" included.
	g.GET("/brands/names", func(c echo.Context) error {
		names, err := a.Catalog.Brands(c.Request().Context())
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"brands": names})
	})

	g.GET("/brands/:id", func(c echo.Context) error {
		id, ok := api.ParamID(c, "id")
		if !ok {
			return api.BadRequest(c, "invalid brand id")
		}
		b, err := a.Brands.ByID(c.Request().Context(), id)
		if err != nil {
			return api.Fail(c, log, err)
		}
		return c.JSON(http.StatusOK, b)
	})
}
