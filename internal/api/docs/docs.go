// Package docs описывает HTTP API сервиса категорий для Swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "produces": ["application/json"],
    "paths": {
        "/health": {
            "get": {
                "summary": "Проверка доступности сервиса",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Метрики в формате Prometheus",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Prometheus exposition"}
                }
            }
        },
        "/api/v1/categories": {
            "get": {
                "summary": "Текущее состояние списка категорий",
                "responses": {
                    "200": {"description": "loading или ready", "schema": {"$ref": "#/definitions/viewStateResponse"}},
                    "429": {"description": "Превышен лимит запросов", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Загрузка завершилась ошибкой", "schema": {"$ref": "#/definitions/viewStateResponse"}}
                }
            }
        },
        "/api/v1/categories/{name}": {
            "get": {
                "summary": "Карточка категории по имени или идентификатору",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Категория найдена", "schema": {"$ref": "#/definitions/categoryDetailResponse"}},
                    "400": {"description": "Не указано имя", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "404": {"description": "Категория не найдена", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Загрузка завершилась ошибкой", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "503": {"description": "Категории еще загружаются", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "category": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "viewState": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["loading", "ready", "error"]},
                "loading": {"type": "boolean"},
                "categories": {"type": "array", "items": {"$ref": "#/definitions/category"}},
                "error": {"type": "string"}
            }
        },
        "viewStateResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/viewState"},
                "meta": {"type": "object", "properties": {"count": {"type": "integer"}}}
            }
        },
        "categoryDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "thumbnail_url": {"type": "string"},
                "description": {"type": "string"},
                "has_description": {"type": "boolean"}
            }
        },
        "categoryDetailResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/categoryDetail"}
            }
        },
        "errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "integer"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo общие сведения об API, подставляются в шаблон документа
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Recipe Catalog API",
	Description:      "Категории рецептов TheMealDB и состояние их загрузки.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
