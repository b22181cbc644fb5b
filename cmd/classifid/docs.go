package main

// General API documentation for swaggo. Run `swag init -g cmd/classifid/docs.go` to generate docs.
//
// @title           classifid API
// @version         1.0
// @description     HTTP API for background image-classification model management and prediction.
//
// @contact.name   classifid maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
