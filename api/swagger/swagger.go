package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduShare API",
        "description": "Educational content sharing backend for a single lecturer and anonymous students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Lecturer session management"},
        {"name": "Content", "description": "Educational material"},
        {"name": "Downloads", "description": "Student download gate and audit log"},
        {"name": "Lecturer", "description": "Lecturer contact profile"},
        {"name": "Files", "description": "Stored file delivery"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Dependencies unavailable"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate lecturer",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current session identity",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/content": {
            "get": {
                "tags": ["Content"],
                "summary": "List content visible to the caller",
                "parameters": [
                    {"name": "type", "in": "query", "type": "string", "enum": ["pdf", "video", "powerpoint"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Content"],
                "summary": "Upload content (lecturer only)",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "courseTitle", "in": "formData", "type": "string"},
                    {"name": "category", "in": "formData", "type": "string"},
                    {"name": "contentType", "in": "formData", "required": true, "type": "string", "enum": ["pdf", "video", "powerpoint"]},
                    {"name": "visibility", "in": "formData", "required": true, "type": "string", "enum": ["public", "lecturer_only"]},
                    {"name": "videoURL", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/content/stream": {
            "get": {
                "tags": ["Content"],
                "summary": "Live content feed (server-sent events)",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "Event stream; each event carries the full visible listing"}
                }
            }
        },
        "/api/v1/content/stats": {
            "get": {
                "tags": ["Content"],
                "summary": "Content statistics (lecturer only)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/content/{id}": {
            "get": {
                "tags": ["Content"],
                "summary": "Get content item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Content"],
                "summary": "Delete content (lecturer only)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/content/{id}/views": {
            "post": {
                "tags": ["Content"],
                "summary": "Record a view",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Recorded"}
                }
            }
        },
        "/api/v1/content/{id}/downloads": {
            "post": {
                "tags": ["Downloads"],
                "summary": "Record a student download",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordDownloadRequest"}}
                ],
                "responses": {
                    "201": {"description": "Recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid student details"},
                    "404": {"description": "Content not found"}
                }
            }
        },
        "/api/v1/downloads": {
            "get": {
                "tags": ["Downloads"],
                "summary": "List download records (lecturer only)",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/v1/downloads/export": {
            "get": {
                "tags": ["Downloads"],
                "summary": "Export the download log (lecturer only)",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Exported file"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/api/v1/students/{email}": {
            "get": {
                "tags": ["Downloads"],
                "summary": "Get a registered student (lecturer only)",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/lecturer": {
            "get": {
                "tags": ["Lecturer"],
                "summary": "Get the lecturer profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No profile yet"}
                }
            },
            "put": {
                "tags": ["Lecturer"],
                "summary": "Create or update the lecturer profile (lecturer only)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertLecturerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/files/{path}": {
            "get": {
                "tags": ["Files"],
                "summary": "Download a stored file",
                "parameters": [
                    {"name": "path", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File contents"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RecordDownloadRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "matricNumber": {"type": "string"},
                "department": {"type": "string"},
                "level": {"type": "string"},
                "phoneNumber": {"type": "string"}
            },
            "required": ["firstName", "lastName", "email", "matricNumber", "department", "level"]
        },
        "UpsertLecturerRequest": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "office": {"type": "string"},
                "department": {"type": "string"},
                "title": {"type": "string"},
                "bio": {"type": "string"},
                "officeHours": {"type": "object", "additionalProperties": {"type": "string"}}
            },
            "required": ["firstName", "lastName", "email"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
