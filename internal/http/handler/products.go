package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"rppapi/internal/model"
	"rppapi/internal/service"
)

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param page query int false "1-based page" default(1)
// @Param limit query int false "page size (max 100)" default(10)
// @Param search query string false "case-insensitive substring of name, description or category"
// @Param categories query string false "dot-separated categories"
// @Success 200 {object} productListResponse
// @Router /products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), service.ProductListParams{
			PageParams: service.PageParams{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 10)},
			Search:     c.Query("search"),
			Categories: splitDots(c.Query("categories")),
		})
		if err != nil {
			return writeInternal(c, err, "Failed to fetch products")
		}

		items := res.Items
		if items == nil {
			items = []model.Product{}
		}
		return c.JSON(productListResponse{
			Success:       true,
			Time:          nowISO(),
			Message:       "Products retrieved successfully",
			TotalProducts: res.Total,
			Offset:        res.Offset,
			Limit:         res.Limit,
			Products:      items,
		})
	}
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} productResponse
// @Failure 404 {object} errorPayload
// @Router /products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid product ID")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to fetch product")
		}
		return c.JSON(productResponse{
			Success: true,
			Time:    nowISO(),
			Message: fmt.Sprintf("Product with ID %d found", id),
			Product: p,
		})
	}
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param body body service.CreateProductInput true "product"
// @Success 201 {object} productResponse
// @Failure 400 {object} errorPayload
// @Router /products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateProductInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				return writeError(c, fiber.StatusBadRequest, verr.Message)
			}
			return writeInternal(c, err, "Failed to create product")
		}
		return c.Status(fiber.StatusCreated).JSON(productResponse{
			Success: true,
			Message: "Product created successfully",
			Product: p,
		})
	}
}

// UpdateProduct godoc
// @Summary Partially update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param body body model.ProductPatch true "fields to change"
// @Success 200 {object} productResponse
// @Failure 404 {object} errorPayload
// @Router /products/{id} [put]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid product ID")
		}
		var patch model.ProductPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		p, err := svc.Update(c.UserContext(), id, patch)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to update product")
		}
		return c.JSON(productResponse{
			Success: true,
			Message: "Product updated successfully",
			Product: p,
		})
	}
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorPayload
// @Router /products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "Invalid product ID")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			}
			return writeInternal(c, err, "Failed to delete product")
		}
		return c.JSON(messageResponse{Success: true, Message: "Product deleted successfully"})
	}
}
