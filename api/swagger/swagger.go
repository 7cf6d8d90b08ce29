package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "inteduweb admin",
        "description": "Server-rendered administration of classrooms and schools",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Views", "description": "HTML list, detail, form and delete pages"},
        {"name": "State", "description": "Per-session controller state"},
        {"name": "Audit", "description": "Mutation journal"},
        {"name": "Observability", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Observability"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Observability"],
                "summary": "Readiness check of Redis and Postgres when configured",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "Aggregated runtime counters",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{entity}": {
            "get": {
                "tags": ["Views"],
                "summary": "List page; searches when search is not blank",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["classroom", "school"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "clear", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "size", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "HTML page"}
                }
            }
        },
        "/{entity}/new": {
            "get": {
                "tags": ["Views"],
                "summary": "Create form",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "HTML page"}}
            },
            "post": {
                "tags": ["Views"],
                "summary": "Submit the create form",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "name", "in": "formData", "type": "string"},
                    {"name": "users", "in": "formData", "type": "array", "items": {"type": "string"}, "collectionFormat": "multi"},
                    {"name": "school.id", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "303": {"description": "Saved; redirects to the list"},
                    "400": {"description": "Form invalid; nothing sent upstream"}
                }
            }
        },
        "/{entity}/{id}": {
            "get": {
                "tags": ["Views"],
                "summary": "Detail page",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "HTML page"},
                    "404": {"description": "Unknown id"}
                }
            }
        },
        "/{entity}/{id}/edit": {
            "get": {
                "tags": ["Views"],
                "summary": "Edit form",
                "produces": ["text/html"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "HTML page"}}
            },
            "post": {
                "tags": ["Views"],
                "summary": "Submit the edit form; the stored id is kept",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "name", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "303": {"description": "Saved; redirects to the list"},
                    "400": {"description": "Form invalid"}
                }
            }
        },
        "/{entity}/{id}/delete": {
            "get": {
                "tags": ["Views"],
                "summary": "Delete confirmation dialog",
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"200": {"description": "HTML page"}}
            },
            "post": {
                "tags": ["Views"],
                "summary": "Delete the record and refresh the list",
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {"303": {"description": "Deleted; redirects to the list"}}
            }
        },
        "/{entity}/export": {
            "get": {
                "tags": ["Views"],
                "summary": "Download the list as CSV, PDF or XLSX",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/state/{entity}": {
            "get": {
                "tags": ["State"],
                "summary": "Snapshot of the session's controller state",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/ws/{entity}": {
            "get": {
                "tags": ["State"],
                "summary": "Websocket stream of state snapshots",
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "101": {"description": "Switching protocols"}
                }
            }
        },
        "/audit": {
            "get": {
                "tags": ["Audit"],
                "summary": "Recent mutations issued through the admin views",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "resource", "in": "query", "type": "string"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Audit journal disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/references/users/refresh": {
            "post": {
                "tags": ["References"],
                "summary": "Drop the cached user directory so the next form reloads it",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Cache unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "EntityState": {
            "type": "object",
            "properties": {
                "loading": {"type": "boolean"},
                "updating": {"type": "boolean"},
                "updateSuccess": {"type": "boolean"},
                "errorMessage": {"type": "string"},
                "entity": {"type": "object"},
                "entities": {"type": "array", "items": {"type": "object"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
