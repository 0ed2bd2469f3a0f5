// Package docs registers the OpenAPI document served at /docs.
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
        "/naps": {
            "get": {
                "description": "Returns the NAPs matching the current filter, in catalog order",
                "produces": ["application/json"],
                "tags": ["naps"],
                "summary": "List visible NAPs",
                "parameters": [
                    {"type": "integer", "description": "Page size (max 1000)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Page offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.NAPsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIError"}}
                }
            }
        },
        "/naps/municipalities": {
            "get": {
                "produces": ["application/json"],
                "tags": ["naps"],
                "summary": "List municipalities",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/naps/active": {
            "get": {
                "description": "Returns the detail card of the active NAP, or the placeholder when nothing is visible",
                "produces": ["application/json"],
                "tags": ["naps"],
                "summary": "Get the active NAP",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SelectResponse"}}
                }
            }
        },
        "/naps/filter": {
            "put": {
                "description": "Merges the given fields into the current filter. Omitted fields are unchanged; \"all\" clears a selector.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["naps"],
                "summary": "Update the directory filter",
                "parameters": [
                    {"description": "Partial filter", "name": "filter", "in": "body", "required": true, "schema": {"$ref": "#/definitions/directory.Patch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.DirectoryView"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIError"}}
                }
            }
        },
        "/naps/{id}/select": {
            "post": {
                "description": "Makes a visible NAP the active one",
                "produces": ["application/json"],
                "tags": ["naps"],
                "summary": "Select a NAP",
                "parameters": [
                    {"type": "string", "description": "NAP ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SelectResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIError"}}
                }
            }
        },
        "/stock": {
            "get": {
                "description": "Returns every catalog item with its availability and staged quantity",
                "produces": ["application/json"],
                "tags": ["stock"],
                "summary": "List stock items",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.StockView"}}
                }
            }
        },
        "/joborders": {
            "post": {
                "description": "Validates the draft against current availability and commits it atomically. When the body carries lines they are committed exactly as given instead of the staged draft, and the draft is left alone.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["joborders"],
                "summary": "Submit the staged job order",
                "parameters": [
                    {"description": "Explicit lines to commit", "name": "order", "in": "body", "required": false, "schema": {"$ref": "#/definitions/api.SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.JobOrderResponse"}},
                    "400": {"description": "No items selected", "schema": {"$ref": "#/definitions/api.APIError"}},
                    "404": {"description": "Unknown stock item", "schema": {"$ref": "#/definitions/api.APIError"}},
                    "409": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/api.APIError"}}
                }
            }
        },
        "/joborders/draft": {
            "get": {
                "produces": ["application/json"],
                "tags": ["joborders"],
                "summary": "Get the staged job order",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.JobOrderSummary"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["joborders"],
                "summary": "Clear the staged job order",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.JobOrderSummary"}}
                }
            }
        },
        "/joborders/draft/{id}": {
            "put": {
                "description": "Stores the quantity for one item, clamped to [0, available]. Non-numeric input stages 0.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["joborders"],
                "summary": "Stage a quantity",
                "parameters": [
                    {"type": "string", "description": "Stock item ID", "name": "id", "in": "path", "required": true},
                    {"description": "Quantity as number or string", "name": "quantity", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.QuantityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.QuantityResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIError"}}
                }
            }
        },
        "/stats": {
            "get": {
                "description": "Totals of the visible NAPs, the stock panel and the job-order counters",
                "produces": ["application/json"],
                "tags": ["stats"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StatisticsResponse"}}
                }
            }
        },
        "/validate/catalog": {
            "post": {
                "description": "Checks a NAP and stock catalog document without loading it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["validation"],
                "summary": "Validate a catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/validation.ValidationResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/validation.ValidationResult"}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Pushes directory_updated, draft_updated, joborder_committed and joborder_rejected events",
                "tags": ["websocket"],
                "summary": "WebSocket feed of dashboard updates",
                "responses": {
                    "101": {"description": "Switching Protocols", "schema": {"type": "string"}}
                }
            }
        },
        "/ws/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["websocket"],
                "summary": "Get WebSocket statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.WebSocketStatsResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "details": {"type": "string"},
                "field_errors": {"type": "object", "additionalProperties": {"type": "string"}},
                "context": {"type": "object", "additionalProperties": true}
            }
        },
        "api.NAPsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "criteria": {"$ref": "#/definitions/directory.Criteria"},
                "totals": {"$ref": "#/definitions/directory.Aggregates"},
                "naps": {"type": "array", "items": {"$ref": "#/definitions/dashboard.NAPRow"}}
            }
        },
        "api.SelectResponse": {
            "type": "object",
            "properties": {
                "selected": {"type": "boolean"},
                "activeId": {"type": "string"},
                "detail": {"$ref": "#/definitions/directory.Detail"}
            }
        },
        "api.QuantityRequest": {
            "type": "object",
            "properties": {
                "quantity": {"description": "number or numeric string"}
            }
        },
        "api.SubmitRequest": {
            "type": "object",
            "properties": {
                "lines": {"type": "array", "items": {"$ref": "#/definitions/reservation.Line"}}
            }
        },
        "api.QuantityResponse": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "quantity": {"type": "integer"},
                "summary": {"$ref": "#/definitions/dashboard.JobOrderSummary"}
            }
        },
        "api.JobOrderResponse": {
            "type": "object",
            "properties": {
                "outcome": {"$ref": "#/definitions/dashboard.Outcome"},
                "receipt": {"$ref": "#/definitions/reservation.Receipt"}
            }
        },
        "api.StatisticsResponse": {
            "type": "object",
            "properties": {
                "directory": {"$ref": "#/definitions/directory.Aggregates"},
                "stock": {"$ref": "#/definitions/reservation.StockAggregates"},
                "counters": {"$ref": "#/definitions/reservation.Counters"},
                "municipalities": {"type": "integer"},
                "connectedClients": {"type": "integer"}
            }
        },
        "api.WebSocketStatsResponse": {
            "type": "object",
            "properties": {
                "connected_clients": {"type": "integer"},
                "status": {"type": "string"}
            }
        },
        "dashboard.NAPRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "municipality": {"type": "string"},
                "barangay": {"type": "string"},
                "pon": {"type": "string"},
                "lcp": {"type": "string"},
                "totalPorts": {"type": "integer"},
                "availablePorts": {"type": "integer"},
                "state": {"type": "string", "enum": ["available", "full", "maintenance"]},
                "stateLabel": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "dashboard.DirectoryView": {
            "type": "object",
            "properties": {
                "criteria": {"$ref": "#/definitions/directory.Criteria"},
                "municipalities": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/dashboard.NAPRow"}},
                "totals": {"$ref": "#/definitions/directory.Aggregates"},
                "detail": {"$ref": "#/definitions/directory.Detail"}
            }
        },
        "dashboard.StockRow": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "item": {"type": "string"},
                "category": {"type": "string"},
                "inStock": {"type": "integer"},
                "reserved": {"type": "integer"},
                "available": {"type": "integer"},
                "critical": {"type": "boolean"},
                "statusLabel": {"type": "string"},
                "desired": {"type": "integer"},
                "disabled": {"type": "boolean"}
            }
        },
        "dashboard.StockView": {
            "type": "object",
            "properties": {
                "rows": {"type": "array", "items": {"$ref": "#/definitions/dashboard.StockRow"}},
                "totals": {"$ref": "#/definitions/reservation.StockAggregates"}
            }
        },
        "dashboard.JobOrderSummary": {
            "type": "object",
            "properties": {
                "empty": {"type": "boolean"},
                "headline": {"type": "string"},
                "totalUnits": {"type": "integer"},
                "lines": {"type": "array", "items": {"type": "string"}},
                "draft": {"type": "array", "items": {"$ref": "#/definitions/reservation.Line"}}
            }
        },
        "dashboard.Outcome": {
            "type": "object",
            "properties": {
                "tone": {"type": "string", "enum": ["neutral", "info", "success", "error"]},
                "message": {"type": "string"},
                "phase": {"type": "string"},
                "reference": {"type": "string"}
            }
        },
        "directory.Criteria": {
            "type": "object",
            "properties": {
                "municipality": {"type": "string"},
                "state": {"type": "string"},
                "search": {"type": "string"}
            }
        },
        "directory.Patch": {
            "type": "object",
            "properties": {
                "municipality": {"type": "string"},
                "state": {"type": "string"},
                "search": {"type": "string"}
            }
        },
        "directory.Aggregates": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "totalPorts": {"type": "integer"},
                "activePorts": {"type": "integer"},
                "availablePorts": {"type": "integer"},
                "utilisationPercent": {"type": "integer"}
            }
        },
        "directory.Detail": {
            "type": "object",
            "properties": {
                "selected": {"type": "boolean"},
                "name": {"type": "string"},
                "pon": {"type": "string"},
                "lcp": {"type": "string"},
                "nap": {"type": "string"},
                "port": {"type": "string"}
            }
        },
        "reservation.Line": {
            "type": "object",
            "properties": {
                "itemId": {"type": "string"},
                "name": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "reservation.Receipt": {
            "type": "object",
            "properties": {
                "reference": {"type": "string"},
                "sequence": {"type": "integer"},
                "lineCount": {"type": "integer"},
                "totalUnits": {"type": "integer"},
                "lines": {"type": "array", "items": {"$ref": "#/definitions/reservation.Line"}}
            }
        },
        "reservation.Counters": {
            "type": "object",
            "properties": {
                "openJobOrders": {"type": "integer"},
                "sequence": {"type": "integer"}
            }
        },
        "reservation.StockAggregates": {
            "type": "object",
            "properties": {
                "totalAvailable": {"type": "integer"},
                "criticalItems": {"type": "integer"},
                "openJobOrders": {"type": "integer"}
            }
        },
        "validation.ValidationResult": {
            "type": "object",
            "properties": {
                "valid": {"type": "boolean"},
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "field": {"type": "string"},
                            "message": {"type": "string"},
                            "value": {}
                        }
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "opsdash API",
	Description:      "NAP directory and job-order staging for field operations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
