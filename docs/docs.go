// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

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
        "/api/books": {
            "get": {
                "summary": "List catalog page (admin size)",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "size", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "department", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "502": {"description": "Backend unavailable"}}
            },
            "post": {
                "summary": "Add book",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "author", "in": "formData", "required": true},
                    {"type": "integer", "name": "year", "in": "formData"},
                    {"type": "string", "name": "category", "in": "formData"},
                    {"type": "string", "name": "department", "in": "formData"},
                    {"type": "file", "name": "attachment", "in": "formData"}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}
            }
        },
        "/api/user/books": {
            "get": {"summary": "List catalog page (user size)", "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/bulk": {
            "post": {
                "summary": "Bulk upload",
                "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "files", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/books/{id}": {
            "put": {"summary": "Edit book", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"summary": "Delete book", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/books/{id}/download": {
            "get": {"summary": "Download document", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "File"}, "422": {"description": "Rejected"}}}
        },
        "/api/views": {
            "post": {"summary": "Open a stateful catalog view", "responses": {"201": {"description": "Created"}}}
        },
        "/api/views/{id}": {
            "get": {"summary": "View snapshot", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"summary": "Close view", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "Closed"}}}
        },
        "/api/views/{id}/search": {
            "post": {"summary": "Debounced search", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}}}
        },
        "/api/views/{id}/next": {
            "post": {"summary": "Next page", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "No page"}}}
        },
        "/api/views/{id}/prev": {
            "post": {"summary": "Previous page", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "No page"}}}
        },
        "/api/views/{id}/page": {
            "post": {"summary": "Go to page", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "No page"}}}
        },
        "/api/views/{id}/filters": {
            "post": {"summary": "Apply filters", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/views/{id}/refresh": {
            "post": {"summary": "Refetch the current query", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/views/{id}/events": {
            "get": {"summary": "Snapshot event stream", "produces": ["text/event-stream"], "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Stream"}}}
        },
        "/api/dashboard": {
            "get": {
                "summary": "Dashboard widgets",
                "parameters": [
                    {"type": "string", "name": "range", "in": "query", "enum": ["monthToDate", "lastMonth", "lastThreeMonths", "thisYear", "lastYear"]},
                    {"type": "string", "name": "start", "in": "query"},
                    {"type": "string", "name": "end", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/reports/{kind}": {
            "get": {
                "summary": "Excel report",
                "parameters": [{"type": "string", "name": "kind", "in": "path", "required": true, "enum": ["category", "department"]}],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/api/audit": {
            "get": {
                "summary": "Audit events",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Audit disabled"}}
            }
        },
        "/health": {
            "get": {"summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "Unavailable"}}}
        },
        "/healthz": {
            "get": {"summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library Front API",
	Description:      "Catalog browsing, book administration, dashboard and reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
