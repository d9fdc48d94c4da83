package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Point",
		Fields: graphql.Fields{
			"x": &graphql.Field{Type: graphql.Float},
			"y": &graphql.Field{Type: graphql.Float},
		},
	})

	fieldType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Field",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"field_id":  &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"area_m2":   &graphql.Field{Type: graphql.Float},
			"boundary":  &graphql.Field{Type: graphql.NewList(pointType)},
			"soil_ph":   &graphql.Field{Type: graphql.Float},
			"soil_type": &graphql.Field{Type: graphql.String},
			"location":  &graphql.Field{Type: graphql.String},
		},
	})

	positionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlantPosition",
		Fields: graphql.Fields{
			"id":  &graphql.Field{Type: graphql.Int},
			"x":   &graphql.Field{Type: graphql.Float},
			"y":   &graphql.Field{Type: graphql.Float},
			"row": &graphql.Field{Type: graphql.Int},
			"col": &graphql.Field{Type: graphql.Int},
		},
	})

	layoutType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlantingLayout",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.String},
			"layout_id":           &graphql.Field{Type: graphql.String},
			"field_id":            &graphql.Field{Type: graphql.String},
			"row_spacing_m":       &graphql.Field{Type: graphql.Float},
			"plant_spacing_m":     &graphql.Field{Type: graphql.Float},
			"total_plants":        &graphql.Field{Type: graphql.Int},
			"plant_positions":     &graphql.Field{Type: graphql.NewList(positionType)},
			"coverage_percentage": &graphql.Field{Type: graphql.Float},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AnalysisSession",
		Fields: graphql.Fields{
			"id":                      &graphql.Field{Type: graphql.String},
			"session_id":              &graphql.Field{Type: graphql.String},
			"status":                  &graphql.Field{Type: graphql.String},
			"image_url":               &graphql.Field{Type: graphql.String},
			"annotated_image_url":     &graphql.Field{Type: graphql.String},
			"growth_stage":            &graphql.Field{Type: graphql.String},
			"growth_stage_confidence": &graphql.Field{Type: graphql.Float},
			"current_weather":         &graphql.Field{Type: graphql.String},
			"error":                   &graphql.Field{Type: graphql.String},
		},
	})

	weatherType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Weather",
		Fields: graphql.Fields{
			"condition":   &graphql.Field{Type: graphql.String},
			"temperature": &graphql.Field{Type: graphql.Float},
			"humidity":    &graphql.Field{Type: graphql.Float},
			"wind_speed":  &graphql.Field{Type: graphql.Float},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"field": &graphql.Field{
				Type:        fieldType,
				Description: "Get a field by its public identifier",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Fields.Get(p.Context, p.Args["id"].(string))
				},
			},
			"fields": &graphql.Field{
				Type:        graphql.NewList(fieldType),
				Description: "List fields",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					fields, _, err := deps.Fields.List(p.Context, "", p.Args["limit"].(int), p.Args["offset"].(int))
					return fields, err
				},
			},
			"layout": &graphql.Field{
				Type:        layoutType,
				Description: "Get a planting layout by its public identifier",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Layouts.Get(p.Context, p.Args["id"].(string))
				},
			},
			"fieldLayouts": &graphql.Field{
				Type:        graphql.NewList(layoutType),
				Description: "List layouts generated for a field",
				Args: graphql.FieldConfigArgument{
					"field_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					layouts, _, err := deps.Layouts.ListByField(p.Context, p.Args["field_id"].(string), p.Args["limit"].(int), 0)
					return layouts, err
				},
			},
			"analysis": &graphql.Field{
				Type:        sessionType,
				Description: "Get an analysis session by its public identifier",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Analyses.Get(p.Context, p.Args["id"].(string))
				},
			},
			"currentWeather": &graphql.Field{
				Type:        weatherType,
				Description: "Current weather at a coordinate",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Weather.Current(p.Context, p.Args["lat"].(float64), p.Args["lon"].(float64))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
