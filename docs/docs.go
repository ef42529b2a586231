// Package docs holds the OpenAPI description served on /swagger/*.
//
// Regenerate with: swag init -g internal/api/router.go
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
    "paths": {
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/health/ready": {
            "get": {"produces": ["application/json"], "tags": ["health"], "summary": "Readiness probe", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/session": {
            "get": {"produces": ["application/json"], "tags": ["session"], "summary": "Current session", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}}
        },
        "/v1/session/register": {
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["session"], "summary": "Register",
                "parameters": [{"description": "Sign-up form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.provisioningFailedResponse"}}
                }
            }
        },
        "/v1/session/provision": {
            "post": {
                "consumes": ["application/json"], "tags": ["session"], "summary": "Retry profile provisioning",
                "parameters": [{"description": "Identity and profile", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.provisionRequest"}}],
                "responses": {"204": {"description": "No Content"}, "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.provisioningFailedResponse"}}}
            }
        },
        "/v1/session/login": {
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["session"], "summary": "Login",
                "parameters": [{"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/session/logout": {
            "post": {"produces": ["application/json"], "tags": ["session"], "summary": "Logout", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}}}
        },
        "/v1/session/refresh": {
            "post": {"produces": ["application/json"], "tags": ["session"], "summary": "Refresh session", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}}, "401": {"description": "Unauthorized"}}}
        },
        "/v1/profile": {
            "get": {"produces": ["application/json"], "tags": ["profile"], "summary": "Current profile", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "put": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["profile"], "summary": "Update profile",
                "parameters": [{"description": "Changed fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateProfileRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}
            }
        },
        "/v1/profile/sensitive": {
            "post": {"produces": ["application/json"], "tags": ["profile"], "summary": "Begin sensitive edit", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.gateResponse"}}}},
            "delete": {"produces": ["application/json"], "tags": ["profile"], "summary": "Cancel sensitive edit", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.gateResponse"}}}}
        },
        "/v1/profile/verify": {
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["profile"], "summary": "Verify current password",
                "parameters": [{"description": "Current password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.verifyRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/v1/orders": {
            "get": {"produces": ["application/json"], "tags": ["orders"], "summary": "Order history", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/v1/products": {
            "get": {"produces": ["application/json"], "tags": ["products"], "summary": "List products", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/cart": {
            "get": {"produces": ["application/json"], "tags": ["cart"], "summary": "Get cart", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "summary": "Clear cart", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/cart/checkout": {
            "get": {"produces": ["application/json"], "tags": ["cart"], "summary": "Checkout lines", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/cart/items": {
            "post": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["cart"], "summary": "Add to cart",
                "parameters": [{"description": "Product and choices", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addToCartRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/v1/cart/items/{id}": {
            "patch": {
                "consumes": ["application/json"], "produces": ["application/json"], "tags": ["cart"], "summary": "Update line quantity",
                "parameters": [
                    {"type": "string", "description": "Line id", "name": "id", "in": "path", "required": true},
                    {"description": "New quantity", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateQuantityRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "produces": ["application/json"], "tags": ["cart"], "summary": "Remove line",
                "parameters": [{"type": "string", "description": "Line id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.provisioningFailedResponse": {"type": "object", "properties": {"error": {"type": "string"}, "identity_id": {"type": "string"}}},
        "handler.registerRequest": {
            "type": "object", "required": ["email", "name", "password"],
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "password": {"type": "string", "minLength": 6}}
        },
        "handler.provisionRequest": {
            "type": "object", "required": ["identity_id", "name"],
            "properties": {"identity_id": {"type": "string"}, "name": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object", "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {"state": {"type": "string"}, "identity": {"type": "object"}, "capabilities": {"type": "array", "items": {"type": "string"}}, "warning": {"type": "string"}}
        },
        "handler.gateResponse": {"type": "object", "properties": {"gate_state": {"type": "string"}, "credential": {"type": "string"}}},
        "handler.verifyRequest": {"type": "object", "required": ["current_password"], "properties": {"current_password": {"type": "string"}}},
        "handler.updateProfileRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "phone": {"type": "string"}, "address": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}, "confirm_password": {"type": "string"}}
        },
        "handler.addToCartRequest": {
            "type": "object", "required": ["product_id"],
            "properties": {
                "product_id": {"type": "string"},
                "quantity": {"type": "integer"},
                "flavors": {"type": "array", "items": {"type": "string"}},
                "toppings": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handler.updateQuantityRequest": {"type": "object", "properties": {"quantity": {"type": "integer"}}},
        "handler.productListResponse": {
            "type": "object",
            "properties": {
                "products": {"type": "array", "items": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "integer"}, "image_url": {"type": "string"}, "category": {"type": "string"}}}}
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
	Title:            "Storefront API",
	Description:      "Session, profile, catalog, cart and order history of a single storefront client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
