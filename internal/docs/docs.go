// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/healthz": {
            "get": {
                "tags": ["health"],
                "summary": "Liveness and store reachability",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}}
            }
        },
        "/api/coupons/{code}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Check whether a coupon code is usable",
                "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/products": {
            "get": {
                "tags": ["catalog"],
                "summary": "List visible products",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "string", "enum": ["newest", "price-low", "price-high"], "name": "sort", "in": "query"},
                    {"type": "string", "enum": ["hot-deals"], "name": "offer", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/product.ListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Product with related products",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/product.DetailResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}
                }
            }
        },
        "/api/cart": {
            "get": {"tags": ["cart"], "summary": "Cart contents", "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["cart"],
                "summary": "Add a line to the cart",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.addToCartRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}}
            },
            "delete": {"tags": ["cart"], "summary": "Clear the cart", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/checkout": {
            "post": {
                "tags": ["orders"],
                "summary": "Place an order from the cart",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.CustomerRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.HTTPError"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}
                }
            }
        },
        "/api/orders/quick": {
            "post": {
                "tags": ["orders"],
                "summary": "Order one product directly",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.QuickOrderRequest"}}],
                "responses": {"201": {"description": "Created"}, "409": {"description": "Insufficient stock"}}
            }
        },
        "/api/orders/track": {
            "get": {
                "tags": ["orders"],
                "summary": "Track an order by id and phone",
                "parameters": [
                    {"type": "string", "name": "id", "in": "query", "required": true},
                    {"type": "string", "name": "phone", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.TrackResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/order.TrackResponse"}}
                }
            }
        },
        "/api/admin/login": {
            "post": {
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/main.loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}}
            }
        },
        "/api/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}}
            }
        },
        "/api/admin/orders/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Change order status",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/order.UpdateStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/admin/orders/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Download orders as xlsx",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Dashboard statistics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/admin/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Server-sent stream of order.placed and cart.changed events",
                "description": "EventSource clients pass the session token as access_token.",
                "produces": ["text/event-stream"],
                "parameters": [{"type": "string", "name": "access_token", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.HTTPError"}}}
            }
        }
    },
    "definitions": {
        "httpx.HTTPError": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "not found"},
                "redirect": {"type": "string"}
            }
        },
        "product.ListResponse": {
            "type": "object",
            "properties": {
                "q": {"type": "string"},
                "sort": {"type": "string"},
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"type": "object"}}
            }
        },
        "product.DetailResponse": {
            "type": "object",
            "properties": {
                "product": {"type": "object"},
                "related": {"type": "array", "items": {"type": "object"}}
            }
        },
        "main.addToCartRequest": {
            "type": "object",
            "properties": {
                "product_id": {"type": "string", "example": "p1"},
                "variation": {"type": "string", "example": "41"},
                "quantity": {"type": "integer", "example": 1}
            }
        },
        "main.loginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "admin@leathershop.com"},
                "password": {"type": "string"}
            }
        },
        "order.CustomerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Rahim Uddin"},
                "phone": {"type": "string", "example": "01712345678"},
                "address": {"type": "string"},
                "zone": {"type": "string", "enum": ["inner", "outer"]},
                "note": {"type": "string"}
            }
        },
        "order.QuickOrderRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "zone": {"type": "string"},
                "note": {"type": "string"},
                "product_id": {"type": "string", "example": "p1"},
                "variation": {"type": "string", "example": "41"},
                "quantity": {"type": "integer", "example": 1}
            }
        },
        "order.UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["Pending", "Confirmed", "Shipped", "Delivered", "Cancelled"]}
            }
        },
        "order.TrackResponse": {
            "type": "object",
            "properties": {
                "found": {"type": "boolean"},
                "order": {"type": "object"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "LeatherShop API",
	Description:      "Storefront and admin back-office for a leather shoe retailer.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
