// Package docs holds the Swagger document served at /swagger/doc.json. It is
// maintained by hand alongside the handlers' @Router annotations.
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
        "/debts": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the authenticated user's debts, newest first",
                "produces": ["application/json"],
                "tags": ["debts"],
                "summary": "List debts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Debt"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Register a debt; its balance starts equal to the principal",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["debts"],
                "summary": "Create debt",
                "parameters": [
                    {"description": "Debt data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateDebtRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Debt"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/debts/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["debts"],
                "summary": "Get debt",
                "parameters": [
                    {"type": "string", "description": "Debt ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Debt"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Partially update a debt. Changing the principal without a balance keeps the repaid amount; the balance is always kept within [0, principal]",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["debts"],
                "summary": "Update debt",
                "parameters": [
                    {"type": "string", "description": "Debt ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateDebtRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Debt"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["debts"],
                "summary": "Delete debt",
                "parameters": [
                    {"type": "string", "description": "Debt ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"success": {"type": "boolean"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/payments": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "List the authenticated user's payments, newest first, optionally for one debt",
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "List payments",
                "parameters": [
                    {"type": "string", "description": "Only payments of this debt", "name": "debt_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Payment"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Record a payment and reduce the debt's balance (floored at zero) in one transaction. Repeating a request with the same Idempotency-Key returns the original payment with status 200.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Record payment",
                "parameters": [
                    {"type": "string", "description": "Client-generated key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Payment data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreatePaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Replayed request", "schema": {"$ref": "#/definitions/models.Payment"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Payment"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/payments/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Delete a payment and restore its amount to the debt's balance (capped at the principal) in one transaction",
                "produces": ["application/json"],
                "tags": ["payments"],
                "summary": "Delete payment",
                "parameters": [
                    {"type": "string", "description": "Payment ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"success": {"type": "boolean"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Totals, per-debt progress, this month's payments, the next two due dates and the recent payment trend",
                "produces": ["application/json"],
                "tags": ["summary"],
                "summary": "Repayment summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Summary"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.CreateDebtRequest": {
            "type": "object",
            "required": ["name", "payment_date"],
            "properties": {
                "interest_rate": {"type": "number"},
                "name": {"type": "string", "maxLength": 200},
                "payment_date": {"type": "integer", "maximum": 31, "minimum": 1},
                "principal": {"type": "number"}
            }
        },
        "models.CreatePaymentRequest": {
            "type": "object",
            "required": ["amount", "date", "debt_id"],
            "properties": {
                "amount": {"type": "number"},
                "date": {"type": "string", "example": "2026-10-15"},
                "debt_id": {"type": "string"}
            }
        },
        "models.Debt": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "interest_rate": {"type": "number"},
                "name": {"type": "string"},
                "payment_date": {"type": "integer"},
                "principal": {"type": "number"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "models.DebtProgress": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "debt_id": {"type": "string"},
                "name": {"type": "string"},
                "paid": {"type": "number"},
                "principal": {"type": "number"},
                "progress_percent": {"type": "number"}
            }
        },
        "models.Payment": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "created_at": {"type": "string"},
                "date": {"type": "string", "example": "2026-10-15"},
                "debt_id": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "models.Summary": {
            "type": "object",
            "properties": {
                "debts": {"type": "array", "items": {"$ref": "#/definitions/models.DebtProgress"}},
                "progress_percent": {"type": "number"},
                "this_month_total": {"type": "number"},
                "total_balance": {"type": "number"},
                "total_paid": {"type": "number"},
                "total_principal": {"type": "number"},
                "trend": {"type": "array", "items": {"$ref": "#/definitions/models.TrendPoint"}},
                "upcoming": {"type": "array", "items": {"$ref": "#/definitions/models.UpcomingDue"}}
            }
        },
        "models.TrendPoint": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "date": {"type": "string"}
            }
        },
        "models.UpcomingDue": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "days_until": {"type": "integer"},
                "debt_id": {"type": "string"},
                "due_date": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "models.UpdateDebtRequest": {
            "type": "object",
            "properties": {
                "balance": {"type": "number"},
                "interest_rate": {"type": "number"},
                "name": {"type": "string", "maxLength": 200, "minLength": 1},
                "payment_date": {"type": "integer", "maximum": 31, "minimum": 1},
                "principal": {"type": "number"}
            }
        },
        "services.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Debt Tracker API",
	Description:      "Debts, payments and repayment progress with a consistent stored balance",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
