// Package docs provides the Swagger document served at /swagger.
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
            "get": {
                "tags": ["system"],
                "summary": "Service health",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register a new account",
                "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Sign in and receive a JWT",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/goals": {
            "get": {
                "tags": ["goals"],
                "summary": "The signed-in user's goals, newest first",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["goals"],
                "summary": "Create a goal, optionally with a PDF attachment",
                "responses": {"201": {"description": "Created"}, "413": {"description": "Payload too large"}}
            },
            "delete": {
                "tags": ["goals"],
                "summary": "Delete every goal for the signed-in user",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/goals/{id}": {
            "put": {
                "tags": ["goals"],
                "summary": "Update a goal's title, description, color and attachment",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["goals"],
                "summary": "Delete a goal",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/goals/{id}/status": {
            "patch": {
                "tags": ["goals"],
                "summary": "Set the goal's traffic-light status",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}}
            }
        },
        "/goals/{id}/reflection": {
            "patch": {
                "tags": ["goals"],
                "summary": "Replace the goal's reflection text",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/goals/{id}/attachment": {
            "get": {
                "tags": ["goals"],
                "summary": "Download the goal's attachment",
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["goals"],
                "summary": "Remove the goal's attachment",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/goals/{id}/activate": {
            "post": {
                "tags": ["goals"],
                "summary": "Select a goal as the active tab",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/view": {
            "get": {
                "tags": ["goals"],
                "summary": "Render-ready projection of the tab strip and active panel",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/supervisor/grant": {
            "post": {
                "tags": ["supervisor"],
                "summary": "Redeem a one-time code for a supervisor session",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}}
            },
            "delete": {
                "tags": ["supervisor"],
                "summary": "End the supervisor session immediately",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/supervisor/overview": {
            "get": {
                "tags": ["supervisor"],
                "summary": "Every user's goals, grouped by owner",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Praktikmål API",
	Description:      "Backend for the apprenticeship goal tracker.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
