package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Acompañamiento API",
        "description": "Backend de acompañamiento docente: match docente-especialista, asignaciones, historial y notificaciones",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Match", "description": "Ejecución del proceso de match"},
        {"name": "Asignaciones", "description": "Asignaciones docente-especialista"},
        {"name": "Historial", "description": "Historial de cambios de asignación"},
        {"name": "Notificaciones", "description": "Notificaciones de especialistas"},
        {"name": "Disponibilidad", "description": "Disponibilidad de especialistas"},
        {"name": "Docentes", "description": "Carga de docentes por periodo"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/periodos/{periodo}/match": {
            "post": {
                "tags": ["Match"],
                "summary": "Run assignment match for a term",
                "parameters": [
                    {"name": "periodo", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No roster loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in progress", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asignaciones": {
            "get": {
                "tags": ["Asignaciones"],
                "summary": "List assignment snapshots",
                "parameters": [
                    {"name": "periodo", "in": "query", "type": "string"},
                    {"name": "docente", "in": "query", "type": "string"},
                    {"name": "especialista", "in": "query", "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "ultimaEjecucion", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asignaciones/export": {
            "post": {
                "tags": ["Asignaciones"],
                "summary": "Queue an assignment export",
                "parameters": [
                    {"name": "periodo", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asignaciones/export/{id}": {
            "get": {
                "tags": ["Asignaciones"],
                "summary": "Get export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown job", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/asignaciones/export/download/{token}": {
            "get": {
                "tags": ["Asignaciones"],
                "summary": "Download an exported file",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "produces": ["application/octet-stream"],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Expired or unknown token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/historial": {
            "get": {
                "tags": ["Historial"],
                "summary": "List assignment change history",
                "parameters": [
                    {"name": "especialista", "in": "query", "type": "string"},
                    {"name": "periodo", "in": "query", "type": "string"},
                    {"name": "tipoCambio", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones": {
            "get": {
                "tags": ["Notificaciones"],
                "summary": "List notifications for a specialist",
                "parameters": [
                    {"name": "especialista", "in": "query", "required": true, "type": "string"},
                    {"name": "estado", "in": "query", "type": "string"},
                    {"name": "tipo", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones/{id}/vista": {
            "patch": {
                "tags": ["Notificaciones"],
                "summary": "Mark a notification as seen",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones/{id}/leida": {
            "patch": {
                "tags": ["Notificaciones"],
                "summary": "Mark a notification as read",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid state transition", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones/{id}/archivar": {
            "patch": {
                "tags": ["Notificaciones"],
                "summary": "Archive a notification",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/notificaciones/leidas": {
            "post": {
                "tags": ["Notificaciones"],
                "summary": "Mark all active notifications as read",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAllReadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/disponibilidad": {
            "get": {
                "tags": ["Disponibilidad"],
                "summary": "List specialist availability",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Disponibilidad"],
                "summary": "Replace the specialist availability set",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/SpecialistUpload"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/docentes": {
            "get": {
                "tags": ["Docentes"],
                "summary": "List the roster for a term",
                "parameters": [
                    {"name": "periodo", "in": "query", "required": true, "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Docentes"],
                "summary": "Bulk-load the roster for a term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterLoadRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "MatchResult": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "totalProcesados": {"type": "integer"},
                "matches": {"type": "integer"},
                "sinMatch": {"type": "integer"}
            }
        },
        "AssignmentSnapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "periodo": {"type": "string"},
                "docenteId": {"type": "string"},
                "nombre": {"type": "string"},
                "estado": {"type": "string", "enum": ["Planificado", "Sin Asignar"]},
                "especialistaDni": {"type": "string"},
                "especialistaNombre": {"type": "string"},
                "executedAt": {"type": "string", "format": "date-time"}
            }
        },
        "HistoryRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "periodo": {"type": "string"},
                "docenteId": {"type": "string"},
                "tipoCambio": {"type": "string", "enum": ["ASIGNACION_NUEVA", "MANTENIDO", "REASIGNADO", "DESASIGNADO", "PERMANECE_SIN_ASIGNAR"]},
                "especialistaDni": {"type": "string"},
                "especialistaAnteriorDni": {"type": "string"},
                "executedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Notification": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "especialistaDni": {"type": "string"},
                "tipo": {"type": "string", "enum": ["NUEVA_ASIGNACION", "REASIGNACION_GANADA", "REASIGNACION_PERDIDA", "DESASIGNACION"]},
                "estado": {"type": "string", "enum": ["NO_VISTA", "VISTA", "LEIDA", "ARCHIVADA"]},
                "prioridad": {"type": "string", "enum": ["ALTA", "MEDIA"]},
                "createdAt": {"type": "string", "format": "date-time"},
                "readAt": {"type": "string", "format": "date-time"}
            }
        },
        "SpecialistUpload": {
            "type": "object",
            "required": ["dni", "nombre"],
            "properties": {
                "dni": {"type": "string"},
                "nombre": {"type": "string"},
                "disponibilidad": {"type": "array", "items": {"type": "object"}}
            }
        },
        "RosterLoadRequest": {
            "type": "object",
            "required": ["periodo", "docentes"],
            "properties": {
                "periodo": {"type": "string"},
                "docentes": {"type": "array", "items": {"type": "object"}}
            }
        },
        "MarkAllReadRequest": {
            "type": "object",
            "required": ["especialista"],
            "properties": {
                "especialista": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
