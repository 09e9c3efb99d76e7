// Package docs provides the generated swagger spec. Regenerate with:
//
//	swag init -g cmd/main.go
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
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in",
                "responses": {
                    "204": {"description": "Auth cookies set"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {
                    "204": {"description": "Auth cookies cleared"}
                }
            }
        },
        "/items": {
            "get": {
                "tags": ["items"],
                "summary": "List reading-list items",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "tags": ["items"],
                "summary": "Add a reading-list item",
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "tags": ["items"],
                "summary": "Get a reading-list item",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"},
                    "410": {"description": "Deleted"}
                }
            },
            "patch": {
                "tags": ["items"],
                "summary": "Partially update a reading-list item",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not the owner"},
                    "404": {"description": "Not found"},
                    "410": {"description": "Deleted"}
                }
            },
            "delete": {
                "tags": ["items"],
                "summary": "Soft delete a reading-list item",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Not the owner"},
                    "404": {"description": "Not found"},
                    "410": {"description": "Already deleted"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Reading List API",
	Description:      "A personal reading-list tracker with cookie-based JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
