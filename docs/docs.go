// Package docs registers the OpenAPI document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a resident",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterResidentRequest"}}],
                "responses": {
                    "201": {"description": "Resident registered successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/register-crew": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Register a collection crew member",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterCrewRequest"}}],
                "responses": {
                    "201": {"description": "Crew member registered successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Administrators only", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/register-admin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Register an administrator",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.RegisterAdminRequest"}}],
                "responses": {
                    "201": {"description": "Administrator registered successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Administrators only", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Log out",
                "responses": {"200": {"description": "Logged out successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/auth/validate": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Validate a token",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.TokenValidationRequest"}}],
                "responses": {
                    "200": {"description": "Token is valid", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "401": {"description": "Token invalid, expired or revoked", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/resident/requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Resident"],
                "summary": "List my pickup requests",
                "responses": {"200": {"description": "Pickup requests retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Resident"],
                "summary": "Create a pickup request",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.CreatePickupRequest"}}],
                "responses": {
                    "201": {"description": "Pickup request created successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "400": {"description": "Invalid pickup request", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/resident/requests/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Resident"],
                "summary": "Get one of my pickup requests",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Pickup request retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/resident/qr-code": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Resident"],
                "summary": "Get my verification QR code",
                "responses": {"200": {"description": "QR code issued successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/resident/qr-code.png": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Resident"],
                "summary": "Get my verification QR code as an image",
                "produces": ["image/png"],
                "responses": {"200": {"description": "QR code image", "schema": {"type": "file"}}}
            }
        },
        "/admin/pickup-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "List all pickup requests",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query", "enum": ["PENDING", "APPROVED", "REJECTED", "IN_PROGRESS", "COMPLETED"]},
                    {"type": "string", "name": "requestType", "in": "query", "enum": ["BULK", "HAZMAT", "E_WASTE", "PLASTIC", "PAPER", "GLASS", "METAL"]},
                    {"type": "string", "name": "residentId", "in": "query"},
                    {"type": "string", "name": "assignedCrewId", "in": "query"},
                    {"type": "string", "name": "fromDate", "in": "query"},
                    {"type": "string", "name": "toDate", "in": "query"}
                ],
                "responses": {"200": {"description": "Pickup requests retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/admin/pickup-requests/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "Get a pickup request",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Pickup request retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "Approve or reject a pending pickup request",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.AdminTransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Pickup request updated successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "409": {"description": "Invalid transition or concurrent update", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/admin/crew-members": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "List active crew members",
                "responses": {"200": {"description": "Crew members retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/admin/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "List users",
                "parameters": [
                    {"type": "string", "name": "role", "in": "query", "enum": ["Resident", "Administrator", "CollectionCrewMember"]},
                    {"type": "string", "name": "status", "in": "query", "enum": ["active", "inactive", "suspended"]}
                ],
                "responses": {"200": {"description": "Users retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/admin/users/{id}/status": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "Activate, deactivate or suspend an account",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/models.UpdateUserStatusRequest"}}
                ],
                "responses": {"200": {"description": "User status updated successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/admin/reports/waste-levels": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "Waste level report",
                "parameters": [
                    {"type": "string", "name": "fromDate", "in": "query"},
                    {"type": "string", "name": "toDate", "in": "query"}
                ],
                "responses": {"200": {"description": "Report generated successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/admin/worker-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Administrator"],
                "summary": "Infrastructure worker status",
                "responses": {
                    "200": {"description": "Worker status retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "503": {"description": "Worker unhealthy", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        },
        "/crew/pickup-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Collection Crew"],
                "summary": "List my active assignments",
                "responses": {"200": {"description": "Assignments retrieved successfully", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/crew/pickup-requests/{id}/start": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Collection Crew"],
                "summary": "Start a collection",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Collection started", "schema": {"$ref": "#/definitions/models.APIResponse"}}}
            }
        },
        "/crew/pickup-requests/{id}/complete": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["Collection Crew"],
                "summary": "Complete a collection",
                "consumes": ["application/json", "multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "token", "in": "formData"},
                    {"type": "file", "name": "photo", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Collection completed", "schema": {"$ref": "#/definitions/models.APIResponse"}},
                    "403": {"description": "Verification failed or not assigned", "schema": {"$ref": "#/definitions/models.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.APIError": {
            "type": "object",
            "properties": {"type": {"type": "string"}, "details": {"type": "string"}, "field": {"type": "string"}}
        },
        "models.APIResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "error": {"$ref": "#/definitions/models.APIError"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string", "example": "resident@example.com"}, "password": {"type": "string"}}
        },
        "models.TokenValidationRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {"token": {"type": "string"}}
        },
        "models.RegisterResidentRequest": {
            "type": "object",
            "required": ["name", "email", "password", "address"],
            "properties": {
                "name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"},
                "address": {"type": "string"}, "contactNumber": {"type": "string"}
            }
        },
        "models.RegisterCrewRequest": {
            "type": "object",
            "required": ["name", "email", "password", "address", "employeeId", "contactNumber", "vehicle"],
            "properties": {
                "name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"},
                "address": {"type": "string"}, "employeeId": {"type": "string"},
                "contactNumber": {"type": "string"}, "vehicle": {"type": "string"}
            }
        },
        "models.RegisterAdminRequest": {
            "type": "object",
            "required": ["name", "email", "password", "address"],
            "properties": {
                "name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"},
                "address": {"type": "string"}, "contactNumber": {"type": "string"}
            }
        },
        "models.CreatePickupRequest": {
            "type": "object",
            "required": ["requestType", "description", "scheduledDate"],
            "properties": {
                "requestType": {"type": "string", "enum": ["BULK", "HAZMAT", "E_WASTE", "PLASTIC", "PAPER", "GLASS", "METAL"]},
                "description": {"type": "string"},
                "scheduledDate": {"type": "string", "format": "date-time"},
                "location": {"type": "object", "properties": {"latitude": {"type": "number"}, "longitude": {"type": "number"}}}
            }
        },
        "models.AdminTransitionRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "assignedCrew": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "models.UpdateUserStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string", "enum": ["active", "inactive", "suspended"]}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT Authorization header using the Bearer scheme.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8081",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "WasteWise Backend API",
	Description:      "Waste-collection pickup requests: resident requests, administrator approval and crew assignment, QR-verified collection.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
