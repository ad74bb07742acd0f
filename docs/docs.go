// Package docs registers the OpenAPI document served under /swagger.
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
    "paths": {
        "/transcripts": {
            "get": {"tags": ["Transcripts"], "summary": "List transcripts", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Transcripts"], "summary": "Create a blank transcript", "responses": {"201": {"description": "Created"}}},
            "delete": {"tags": ["Transcripts"], "summary": "Delete the whole archive",
                "parameters": [{"type": "boolean", "name": "confirm", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "428": {"description": "Confirmation missing"}}}
        },
        "/transcripts/{id}": {
            "get": {"tags": ["Transcripts"], "summary": "Get a transcript",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["Transcripts"], "summary": "Delete a transcript",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/transcripts/{id}/text": {
            "get": {"tags": ["Transcripts"], "summary": "Get display text",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/transcripts/{id}/content": {
            "put": {"tags": ["Transcripts"], "summary": "Edit transcript text",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/transcripts/{id}/speakers": {
            "get": {"tags": ["Speakers"], "summary": "List speakers",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Speakers"], "summary": "Add a speaker",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/transcripts/{id}/speakers/{speakerId}": {
            "put": {"tags": ["Speakers"], "summary": "Rename a speaker",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "speakerId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Speaker not found"}}},
            "delete": {"tags": ["Speakers"], "summary": "Delete a speaker",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "speakerId", "in": "path", "required": true}, {"type": "boolean", "name": "confirm", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "428": {"description": "Confirmation missing"}}}
        },
        "/jobs/upload": {
            "post": {"tags": ["Jobs"], "summary": "Transcribe an uploaded recording", "consumes": ["multipart/form-data"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}, {"type": "string", "name": "title", "in": "formData"}],
                "responses": {"202": {"description": "Accepted"}, "401": {"description": "AssemblyAI key missing"}}}
        },
        "/jobs/url": {
            "post": {"tags": ["Jobs"], "summary": "Transcribe a remote recording", "responses": {"202": {"description": "Accepted"}, "422": {"description": "Unsupported source"}}}
        },
        "/jobs/{id}": {
            "get": {"tags": ["Jobs"], "summary": "Get a job",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/sync/push": {"post": {"tags": ["Sync"], "summary": "Push the archive", "responses": {"200": {"description": "OK"}}}},
        "/sync/pull": {"post": {"tags": ["Sync"], "summary": "Pull the archive", "responses": {"200": {"description": "OK"}}}},
        "/sync/status": {"get": {"tags": ["Sync"], "summary": "Sync status", "responses": {"200": {"description": "OK"}}}},
        "/settings/keys": {
            "get": {"tags": ["Settings"], "summary": "Export keys", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Settings"], "summary": "Import keys", "responses": {"200": {"description": "OK"}, "400": {"description": "Malformed backup"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Lasto API",
	Description:      "Transcript editor backend: archive, speaker editing, AssemblyAI transcription and cloud backup.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
