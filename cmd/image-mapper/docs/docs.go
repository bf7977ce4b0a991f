// Package docs holds the swagger document served at /swagger.
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
        "/map": {
            "post": {
                "description": "Transform a native CMS image record into canonical image content",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["mapping"],
                "summary": "Map a CMS image record",
                "parameters": [
                    {"type": "string", "description": "Transaction id", "name": "X-Request-Id", "in": "header"},
                    {"description": "CMS record", "name": "record", "in": "body", "required": true, "schema": {"$ref": "#/definitions/cms.Record"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/content.Content"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/ingest": {
            "post": {
                "description": "Transform a native CMS image record and publish it as a cms-content-published event",
                "consumes": ["application/json"],
                "tags": ["mapping"],
                "summary": "Map and publish a CMS image record",
                "parameters": [
                    {"type": "string", "description": "Transaction id", "name": "X-Request-Id", "in": "header"},
                    {"description": "CMS record", "name": "record", "in": "body", "required": true, "schema": {"$ref": "#/definitions/cms.Record"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "error_code": {"type": "string"},
                "detail": {"type": "string"}
            }
        },
        "cms.Record": {
            "type": "object",
            "properties": {
                "uuid": {"type": "string"},
                "type": {"type": "string"},
                "value": {"type": "string", "format": "byte"},
                "attributes": {"type": "string"},
                "workflowStatus": {"type": "string"},
                "systemAttributes": {"type": "string"},
                "usageTickets": {"type": "string"},
                "lastModified": {"type": "string", "format": "date-time"}
            }
        },
        "content.Identifier": {
            "type": "object",
            "properties": {
                "authority": {"type": "string"},
                "identifierValue": {"type": "string"}
            }
        },
        "content.Copyright": {
            "type": "object",
            "properties": {
                "notice": {"type": "string"}
            }
        },
        "content.MasterSource": {
            "type": "object",
            "properties": {
                "authority": {"type": "string"},
                "identifier": {"type": "string"}
            }
        },
        "content.Content": {
            "type": "object",
            "properties": {
                "uuid": {"type": "string"},
                "type": {"type": "string", "enum": ["Image", "Graphic"]},
                "identifiers": {"type": "array", "items": {"$ref": "#/definitions/content.Identifier"}},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "mediaType": {"type": "string"},
                "pixelWidth": {"type": "integer"},
                "pixelHeight": {"type": "integer"},
                "internalBinaryUrl": {"type": "string"},
                "externalBinaryUrl": {"type": "string"},
                "publishedDate": {"type": "string", "format": "date-time"},
                "firstPublishedDate": {"type": "string", "format": "date-time"},
                "publishReference": {"type": "string"},
                "lastModified": {"type": "string", "format": "date-time"},
                "canBeDistributed": {"type": "string"},
                "canBeSyndicated": {"type": "string"},
                "rightsGroup": {"type": "string"},
                "copyright": {"$ref": "#/definitions/content.Copyright"},
                "masterSource": {"$ref": "#/definitions/content.MasterSource"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Image Mapper API",
	Description:      "Maps native CMS image records into canonical Image and Graphic content",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
