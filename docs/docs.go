// Package docs registers the OpenAPI description served at /swagger/*.
// It is maintained by hand. `swag init -g cmd/ledger-api/main.go` regenerates it with schemas.
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
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/signin": {"post": {"tags": ["auth"], "summary": "Sign in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/signout": {"post": {"tags": ["auth"], "summary": "Sign out", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current identity", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/v1/people": {
            "get": {"tags": ["people"], "summary": "List people", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["people"], "summary": "Create a person", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/people/{id}": {
            "get": {"tags": ["people"], "summary": "Get a person", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["people"], "summary": "Update a person", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["people"], "summary": "Delete a person and their transactions", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}, "503": {"description": "Service Unavailable"}}}
        },
        "/v1/people/{id}/transactions": {"get": {"tags": ["people"], "summary": "List a person's transactions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/v1/people/{id}/balance": {"get": {"tags": ["people"], "summary": "Balance with one person", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/v1/transactions": {
            "get": {"tags": ["transactions"], "summary": "List transactions, newest first", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["transactions"], "summary": "Record a transaction", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/transactions/{id}": {
            "get": {"tags": ["transactions"], "summary": "Get a transaction", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["transactions"], "summary": "Update a transaction", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["transactions"], "summary": "Delete a transaction", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/transactions/{id}/settle": {"post": {"tags": ["transactions"], "summary": "Mark a transaction settled or unsettled", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/v1/summary": {"get": {"tags": ["transactions"], "summary": "Whole-ledger balance", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Debt Ledger API",
	Description:      "Track money lent to and borrowed from people.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
