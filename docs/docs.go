// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Sign in with email and password", "security": [], "responses": {"200": {"description": "token and user"}, "401": {"description": "invalid credentials"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Clear the session cookie", "security": [], "responses": {"200": {"description": "signed out"}}}},
        "/users/me": {"get": {"tags": ["users"], "summary": "Current user", "responses": {"200": {"description": "user"}}}},
        "/users/me/password": {"put": {"tags": ["users"], "summary": "Change password", "responses": {"204": {"description": "changed"}, "401": {"description": "current password is incorrect"}}}},
        "/modules": {"get": {"tags": ["modules"], "summary": "Modules visible to the caller", "responses": {"200": {"description": "modules"}}}},
        "/modules/{id}/quizzes": {
            "get": {"tags": ["quizzes"], "summary": "Quizzes of a module", "responses": {"200": {"description": "quizzes"}}},
            "post": {"tags": ["quizzes"], "summary": "Create a quiz", "responses": {"201": {"description": "quiz"}, "422": {"description": "invalid draft"}}}
        },
        "/modules/{id}/files": {"get": {"tags": ["files"], "summary": "Files of a module", "responses": {"200": {"description": "files"}}}},
        "/modules/{id}/files/{target}": {"post": {"tags": ["files"], "summary": "Upload one file as staged", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "file"}, "413": {"description": "file too large"}}}},
        "/modules/{id}/files/commit": {"post": {"tags": ["files"], "summary": "Keep staged files", "responses": {"200": {"description": "committed count"}}}},
        "/modules/{id}/files/staged": {"delete": {"tags": ["files"], "summary": "Discard staged files", "responses": {"200": {"description": "discarded count"}}}},
        "/quizzes/{id}": {
            "get": {"tags": ["quizzes"], "summary": "Quiz with questions", "responses": {"200": {"description": "quiz"}, "404": {"description": "not found"}}},
            "put": {"tags": ["quizzes"], "summary": "Replace a quiz", "responses": {"200": {"description": "quiz"}}},
            "delete": {"tags": ["quizzes"], "summary": "Delete a quiz and its submissions", "responses": {"204": {"description": "deleted"}}}
        },
        "/quizzes/{id}/submit": {"post": {"tags": ["submissions"], "summary": "Submit or retake", "responses": {"201": {"description": "first attempt"}, "200": {"description": "retake"}, "409": {"description": "quiz not published"}}}},
        "/quizzes/{id}/submissions": {"get": {"tags": ["submissions"], "summary": "Submissions of a quiz", "responses": {"200": {"description": "submissions"}}}},
        "/quizzes/{id}/submissions/me": {"get": {"tags": ["submissions"], "summary": "Caller's submission", "responses": {"200": {"description": "submission"}}}},
        "/submissions/{id}": {"get": {"tags": ["submissions"], "summary": "Submission with review", "responses": {"200": {"description": "submission"}}}},
        "/submissions/{id}/grade": {"put": {"tags": ["submissions"], "summary": "Grade a submission", "responses": {"200": {"description": "submission"}, "422": {"description": "score out of range"}}}},
        "/files/{id}": {
            "get": {"tags": ["files"], "summary": "Download a file", "responses": {"200": {"description": "file bytes"}}},
            "delete": {"tags": ["files"], "summary": "Delete a file", "responses": {"204": {"description": "deleted"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Classroom API",
	Description:      "Modules, quizzes, submissions and module files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
