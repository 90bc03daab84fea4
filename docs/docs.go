// Package docs registers the OpenAPI document served under /swagger/*.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "User registration details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.postResponse"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Create post",
                "parameters": [
                    {
                        "description": "Post",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createPostRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.postResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/posts/slug/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get post by slug",
                "parameters": [
                    {"type": "string", "description": "Post slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Get post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Update post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updatePostRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.postResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Delete post",
                "parameters": [
                    {"type": "string", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.authorResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "handler.createPostRequest": {
            "type": "object",
            "required": ["content", "title"],
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.userResponse"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/handler.userResponse"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "handler.postResponse": {
            "type": "object",
            "properties": {
                "author": {"$ref": "#/definitions/handler.authorResponse"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "slug": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "handler.updatePostRequest": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"}
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
	Title:            "Blog API",
	Description:      "Users register and log in with a session cookie, then publish, edit and delete their own posts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
