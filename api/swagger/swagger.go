package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Organic API",
        "description": "Course staff administration and current-user information",
        "version": "0.1.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Staff", "description": "Course staff grants (admin only)"},
        {"name": "CurrentUser", "description": "The authenticated principal"}
    ],
    "paths": {
        "/staff/all": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "githubId", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Staff"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/staff/get": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Staff"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/staff/post": {
            "post": {
                "tags": ["Staff"],
                "summary": "Create staff",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "githubId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Staff"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Unknown user or course", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/staff/update": {
            "put": {
                "tags": ["Staff"],
                "summary": "Update staff",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "query", "type": "integer", "required": true},
                    {"name": "courseId", "in": "query", "type": "integer", "required": true},
                    {"name": "githubId", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Staff"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/staff/delete": {
            "delete": {
                "tags": ["Staff"],
                "summary": "Delete staff",
                "description": "Returns the row as it was before deletion.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Staff"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/currentUser": {
            "get": {
                "tags": ["CurrentUser"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CurrentUser"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/currentUser/emails": {
            "get": {
                "tags": ["CurrentUser"],
                "summary": "Current user's email addresses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/UserEmail"}}}
                }
            }
        },
        "/currentUser/last-online": {
            "post": {
                "tags": ["CurrentUser"],
                "summary": "Mark the current user as online",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "properties": {"lastOnline": {"type": "string", "format": "date-time"}}}}
                }
            }
        }
    },
    "definitions": {
        "Staff": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "courseId": {"type": "integer"},
                "githubId": {"type": "integer"}
            }
        },
        "User": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "githubId": {"type": "integer"},
                "githubNodeId": {"type": "string"},
                "githubLogin": {"type": "string"},
                "email": {"type": "string"},
                "pictureUrl": {"type": "string"},
                "fullName": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "admin": {"type": "boolean"},
                "instructor": {"type": "boolean"},
                "lastOnline": {"type": "string", "format": "date-time"}
            }
        },
        "UserEmail": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "userId": {"type": "integer"}
            }
        },
        "CurrentUser": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/User"},
                "roles": {"type": "array", "items": {"type": "string", "enum": ["ADMIN", "INSTRUCTOR", "USER"]}}
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"}
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
