// Package docs registers the API document with swag so the Swagger UI served
// by echo-swagger can find it.
package docs

import (
	"robodelivery/internal/generated/servers"

	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "robodelivery",
	Description:      "Robot fleet navigation and delivery coordination.",
	InfoInstanceName: "swagger",
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// Register renders the embedded OpenAPI document to JSON and registers it
// under the default instance name.
func Register() error {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return err
	}
	doc, err := swagger.MarshalJSON()
	if err != nil {
		return err
	}
	SwaggerInfo.SwaggerTemplate = string(doc)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
	return nil
}
