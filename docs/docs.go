// Package docs registers the OpenAPI document served under /swagger. The
// template follows the handler annotations; regenerate it with
// swag init -g cmd/server/main.go after changing them.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List a customer's orders",
                "operationId": "listOrders",
                "parameters": [
                    {"type": "string", "description": "Customer email", "name": "email", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OrderListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "description": "Reserves stock for every line and creates a PAID order in one transaction",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place an order",
                "operationId": "placeOrder",
                "parameters": [
                    {"type": "string", "description": "Client retry key", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Order request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlaceOrderInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/OrderEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/tracking": {
            "get": {
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order's tracking status and history",
                "operationId": "getOrderTracking",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TrackingEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/notifications": {
            "get": {
                "description": "Returns at most 100 notifications targeted at the email, newest first",
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "List a customer's notifications",
                "operationId": "listNotifications",
                "parameters": [
                    {"type": "string", "description": "Customer email", "name": "email", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NotificationListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/notifications/{id}/read": {
            "patch": {
                "description": "Idempotent; the body may be omitted to mark as read",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["notifications"],
                "summary": "Set a notification's read flag",
                "operationId": "markNotificationRead",
                "parameters": [
                    {"type": "integer", "description": "Notification ID", "name": "id", "in": "path", "required": true},
                    {"description": "Read flag", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/MarkReadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NotificationEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List catalog items",
                "operationId": "listItems",
                "parameters": [
                    {"type": "string", "description": "Category", "name": "category", "in": "query"},
                    {"type": "string", "description": "Subcategory", "name": "subcategory", "in": "query"},
                    {"type": "string", "description": "Name or SKU search", "name": "search", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List categories with their subcategories",
                "operationId": "listItemCategories",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CategoryListResponse"}}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get an item",
                "operationId": "getItem",
                "parameters": [
                    {"type": "integer", "description": "Item ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/admin/seed-items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Create or overwrite catalog items by SKU",
                "operationId": "seedItems",
                "parameters": [
                    {"description": "Items", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SeedItemsInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/stream": {
            "get": {
                "description": "Server-sent events. Without an email only broadcasts are delivered.",
                "produces": ["text/event-stream"],
                "tags": ["stream"],
                "summary": "Subscribe to live notifications",
                "operationId": "streamNotifications",
                "parameters": [
                    {"type": "string", "description": "Customer email", "name": "email", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Event stream"},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "operationId": "healthCheck",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "ERR_NOT_FOUND"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/ValidationDetail"}}
            }
        },
        "ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"$ref": "#/definitions/ErrorInfo"}
            }
        },
        "Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "LineInput": {
            "type": "object",
            "required": ["itemId", "qty"],
            "properties": {
                "itemId": {"type": "integer", "minimum": 1},
                "qty": {"type": "integer", "minimum": 1}
            }
        },
        "PlaceOrderInput": {
            "type": "object",
            "required": ["customerName", "email", "mobile", "billingAddress", "shippingAddress", "paymentMethod", "lines"],
            "properties": {
                "customerName": {"type": "string"},
                "email": {"type": "string", "format": "email"},
                "mobile": {"type": "string", "minLength": 7},
                "billingAddress": {"type": "string", "minLength": 5},
                "shippingAddress": {"type": "string", "minLength": 5},
                "paymentMethod": {"type": "string", "enum": ["CARD", "UPI", "BANK_TRANSFER", "COD"]},
                "lines": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/LineInput"}}
            }
        },
        "OrderLine": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "itemId": {"type": "integer"},
                "itemName": {"type": "string"},
                "itemSku": {"type": "string"},
                "qty": {"type": "integer"},
                "unitPrice": {"type": "string", "example": "2.50"},
                "amount": {"type": "string", "example": "5.00"}
            }
        },
        "TrackingEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "status": {"type": "string", "example": "PROCESSING"},
                "note": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "Order": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "customerName": {"type": "string"},
                "email": {"type": "string"},
                "mobile": {"type": "string"},
                "billingAddress": {"type": "string"},
                "shippingAddress": {"type": "string"},
                "paymentMethod": {"type": "string"},
                "paymentStatus": {"type": "string", "example": "PAID"},
                "trackingStatus": {"type": "string", "example": "ORDER_PLACED"},
                "total": {"type": "string", "example": "12.40"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/OrderLine"}},
                "events": {"type": "array", "items": {"$ref": "#/definitions/TrackingEvent"}},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "OrderEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/Order"}
            }
        },
        "OrderListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Order"}}
            }
        },
        "Tracking": {
            "type": "object",
            "properties": {
                "orderId": {"type": "integer"},
                "trackingStatus": {"type": "string"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/TrackingEvent"}}
            }
        },
        "TrackingEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/Tracking"}
            }
        },
        "Notification": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "orderId": {"type": "integer"},
                "customerEmail": {"type": "string"},
                "type": {"type": "string", "example": "ORDER_CREATED"},
                "message": {"type": "string"},
                "read": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "NotificationEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/Notification"}
            }
        },
        "NotificationListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Notification"}}
            }
        },
        "MarkReadRequest": {
            "type": "object",
            "properties": {
                "read": {"type": "boolean", "default": true}
            }
        },
        "Item": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "sku": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "subcategory": {"type": "string"},
                "description": {"type": "string"},
                "imageUrl": {"type": "string"},
                "price": {"type": "string", "example": "2.50"},
                "quantity": {"type": "integer"},
                "lowStockThreshold": {"type": "integer"},
                "lowStock": {"type": "boolean"},
                "createdAt": {"type": "string", "format": "date-time"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "ItemEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"$ref": "#/definitions/Item"}
            }
        },
        "ItemListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Item"}},
                "meta": {"$ref": "#/definitions/Meta"}
            }
        },
        "Category": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "subcategories": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CategoryListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "data": {"type": "array", "items": {"$ref": "#/definitions/Category"}}
            }
        },
        "SeedItemInput": {
            "type": "object",
            "required": ["sku", "name", "category", "subcategory", "price", "quantity"],
            "properties": {
                "sku": {"type": "string", "maxLength": 64},
                "name": {"type": "string", "maxLength": 200},
                "category": {"type": "string"},
                "subcategory": {"type": "string"},
                "description": {"type": "string"},
                "imageUrl": {"type": "string", "format": "uri"},
                "price": {"type": "string", "example": "2.50"},
                "quantity": {"type": "integer", "minimum": 0},
                "lowStockThreshold": {"type": "integer", "minimum": 0}
            }
        },
        "SeedItemsInput": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/SeedItemInput"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Grocery storefront: catalog, checkout, order tracking and live notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
