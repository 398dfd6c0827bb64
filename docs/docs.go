// Package docs содержит swagger-спецификацию API сервиса учётных записей.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка доступности",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Возвращает всех пользователей. Только для роли host.",
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Список пользователей",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.User"}}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "403": {"description": "Недостаточно прав", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/register": {
            "post": {
                "description": "Создает учетную запись. Роль по умолчанию guest; host только при users.allow_host_signup.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация нового пользователя",
                "parameters": [
                    {"description": "Данные нового пользователя", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}
                ],
                "responses": {
                    "201": {"description": "Пользователь создан", "schema": {"$ref": "#/definitions/register.Response"}},
                    "400": {"description": "Некорректный JSON или email уже занят", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "403": {"description": "Регистрация с ролью host отключена", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/login": {
            "post": {
                "description": "Аутентифицирует пользователя по email и паролю. Возвращает JWT.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Авторизация пользователя",
                "parameters": [
                    {"description": "Учетные данные пользователя", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}
                ],
                "responses": {
                    "200": {"description": "Успешная авторизация", "schema": {"$ref": "#/definitions/login.Response"}},
                    "400": {"description": "Некорректный JSON", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "401": {"description": "Неверные учетные данные", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "429": {"description": "Слишком много попыток", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "500": {"description": "Внутренняя ошибка сервера", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Подтверждает выход. Токен не отзывается.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Выход пользователя",
                "responses": {
                    "200": {"description": "Выход выполнен", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Получить пользователя",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Обновить пользователя",
                "parameters": [
                    {"description": "Изменяемые поля", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/update.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Некорректный JSON или email уже занят", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "403": {"description": "Недостаточно прав", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Удалить пользователя",
                "responses": {
                    "204": {"description": "Текущий пользователь удален"},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/me/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Объявления текущего пользователя",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Product"}}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        },
        "/users/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Получить пользователя",
                "parameters": [{"type": "string", "description": "ID пользователя", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Пользователь не авторизован", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "403": {"description": "Недостаточно прав", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Обновить пользователя",
                "parameters": [
                    {"type": "string", "description": "ID пользователя", "name": "userId", "in": "path", "required": true},
                    {"description": "Изменяемые поля", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/update.Request"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "400": {"description": "Некорректный JSON или email уже занят", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Удалить пользователя",
                "parameters": [{"type": "string", "description": "ID пользователя", "name": "userId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Пользователь удален", "schema": {"$ref": "#/definitions/response.MessageResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "login.Request": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "ann@example.com"},
                "password": {"type": "string", "example": "secret123"}
            }
        },
        "login.Response": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}}
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "category": {"type": "string"},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "name": {"type": "string"},
                "poster": {"type": "string"},
                "price": {"type": "integer"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {"type": "string"},
                "avatar": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["guest", "host"]},
                "surname": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "register.Request": {
            "type": "object",
            "required": ["email", "name", "password", "surname"],
            "properties": {
                "avatar": {"type": "string", "example": "https://cdn.example.com/ann.png"},
                "email": {"type": "string", "example": "ann@example.com"},
                "name": {"type": "string", "maxLength": 100, "example": "Ann"},
                "password": {"type": "string", "maxLength": 72, "minLength": 6, "example": "secret123"},
                "role": {"type": "string", "enum": ["guest", "host"], "example": "guest"},
                "surname": {"type": "string", "maxLength": 100, "example": "Lee"}
            }
        },
        "register.Response": {
            "type": "object",
            "properties": {"_id": {"type": "string", "example": "6f1c1c8e-8a3e-4c55-9a7d-2b1f0c8f4a11"}}
        },
        "response.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "User already exists"}}
        },
        "update.Request": {
            "type": "object",
            "properties": {
                "avatar": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 100, "minLength": 1},
                "password": {"type": "string", "maxLength": 72, "minLength": 6},
                "role": {"type": "string", "enum": ["guest", "host"]},
                "surname": {"type": "string", "maxLength": 100, "minLength": 1}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Accounts Service API",
	Description:      "API для регистрации, входа и управления учётными записями пользователей",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
