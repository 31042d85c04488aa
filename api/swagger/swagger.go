package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "UniCollab Study API",
        "description": "Document-to-study-artifact pipeline: upload lecture PDFs, get summaries, quizzes and flashcards",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Materials", "description": "Upload pipeline and material management"},
        {"name": "Leaderboard", "description": "Tournament scores with streak bonuses"},
        {"name": "Messages", "description": "DM and group-hub messaging"}
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
        "/materials/upload": {
            "post": {
                "tags": ["Materials"],
                "summary": "Upload a study document and generate summary + quiz",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "userId", "in": "formData", "required": true, "type": "string"},
                    {"name": "pdf", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UploadMaterialResponse"}},
                    "400": {"description": "Invalid input or unreadable document", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/materials/flashcards": {
            "post": {
                "tags": ["Materials"],
                "summary": "Generate flashcards for a stored material",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FlashcardRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Material text not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/materials/user/{userId}": {
            "get": {
                "tags": ["Materials"],
                "summary": "List a user's uploaded materials",
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Material"}}}
                }
            }
        },
        "/materials/{id}": {
            "delete": {
                "tags": ["Materials"],
                "summary": "Delete a material",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/leaderboard/score": {
            "post": {
                "tags": ["Leaderboard"],
                "summary": "Record a quiz score with streak bonus",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScoreRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LeaderboardEntry"}}
                }
            }
        },
        "/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "List the top leaderboard entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/LeaderboardEntry"}}}
                }
            }
        },
        "/messages": {
            "post": {
                "tags": ["Messages"],
                "summary": "Send a message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SendMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/messages/history/{userA}/{userB}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Fetch the DM thread between two users",
                "parameters": [
                    {"name": "userA", "in": "path", "required": true, "type": "string"},
                    {"name": "userB", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Message"}}}
                }
            }
        },
        "/messages/group/{groupId}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Fetch recent group-hub messages",
                "parameters": [
                    {"name": "groupId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Message"}}}
                }
            }
        }
    },
    "definitions": {
        "QuizQuestion": {
            "type": "object",
            "properties": {
                "question": {"type": "string"},
                "options": {
                    "type": "array",
                    "items": {"type": "string"},
                    "minItems": 4,
                    "maxItems": 4
                },
                "correctAnswer": {"type": "integer", "minimum": 0, "maximum": 3}
            }
        },
        "UploadMaterialResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "summary": {"type": "string"},
                "quiz": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/QuizQuestion"}
                },
                "streak": {"type": "integer"},
                "fileUrl": {"type": "string"}
            }
        },
        "FlashcardRequest": {
            "type": "object",
            "properties": {
                "materialId": {"type": "string"}
            },
            "required": ["materialId"]
        },
        "Material": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "user_id": {"type": "string"},
                "file_url": {"type": "string"},
                "title": {"type": "string"},
                "summary": {"type": "string"},
                "quiz": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/QuizQuestion"}
                },
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "SubmitScoreRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "score": {"type": "integer"},
                "studentName": {"type": "string"},
                "department": {"type": "string"},
                "university": {"type": "string"}
            },
            "required": ["userId", "studentName"]
        },
        "LeaderboardEntry": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "student_name": {"type": "string"},
                "score": {"type": "integer"},
                "department": {"type": "string"},
                "university": {"type": "string"},
                "captured_at": {"type": "string", "format": "date-time"}
            }
        },
        "SendMessageRequest": {
            "type": "object",
            "properties": {
                "senderId": {"type": "string"},
                "receiverId": {"type": "string"},
                "content": {"type": "string"},
                "isGroup": {"type": "boolean"}
            },
            "required": ["senderId", "receiverId", "content"]
        },
        "Message": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sender_id": {"type": "string"},
                "receiver_id": {"type": "string"},
                "content": {"type": "string"},
                "is_group_msg": {"type": "boolean"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
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
