package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

// waypointMap flattens a WaypointView; the default resolver does not walk embedded structs.
func waypointMap(wv domain.WaypointView) map[string]any {
	return map[string]any{
		"index":                 wv.Index,
		"month":                 string(wv.Month),
		"lat":                   wv.Latitude,
		"lon":                   wv.Longitude,
		"place":                 wv.Place,
		"reason":                wv.Reason,
		"fact":                  wv.Fact,
		"tooltip":               wv.Tooltip,
		"distance_from_prev_km": wv.DistanceFromPrevKm,
	}
}

func speciesArg(p graphql.ResolveParams) (domain.SpeciesID, error) {
	return domain.ParseSpecies(p.Args["species"].(string))
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SpeciesProfile",
		Fields: graphql.Fields{
			"species": &graphql.Field{Type: graphql.String},
			"slug":    &graphql.Field{Type: graphql.String},
			"fact":    &graphql.Field{Type: graphql.String},
			"image":   &graphql.Field{Type: graphql.String},
		},
	})

	identificationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Identification",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"species":    &graphql.Field{Type: graphql.String},
			"outcome":    &graphql.Field{Type: graphql.String},
			"score":      &graphql.Field{Type: graphql.Int},
			"source":     &graphql.Field{Type: graphql.String},
			"input":      &graphql.Field{Type: graphql.String},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	identifyResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "IdentifyResult",
		Fields: graphql.Fields{
			"identified":     &graphql.Field{Type: graphql.Boolean},
			"identification": &graphql.Field{Type: identificationType},
			"profile":        &graphql.Field{Type: profileType},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "IdentificationPage",
		Fields: graphql.Fields{
			"items":  &graphql.Field{Type: graphql.NewList(identificationType)},
			"offset": &graphql.Field{Type: graphql.Int},
			"limit":  &graphql.Field{Type: graphql.Int},
			"total":  &graphql.Field{Type: graphql.Int},
		},
	})

	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"index":                 &graphql.Field{Type: graphql.Int},
			"month":                 &graphql.Field{Type: graphql.String},
			"lat":                   &graphql.Field{Type: graphql.Float},
			"lon":                   &graphql.Field{Type: graphql.Float},
			"place":                 &graphql.Field{Type: graphql.String},
			"reason":                &graphql.Field{Type: graphql.String},
			"fact":                  &graphql.Field{Type: graphql.String},
			"tooltip":               &graphql.Field{Type: graphql.String},
			"distance_from_prev_km": &graphql.Field{Type: graphql.Float},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	timelineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MigrationTimeline",
		Fields: graphql.Fields{
			"species":           &graphql.Field{Type: graphql.String},
			"waypoints":         &graphql.Field{Type: graphql.NewList(waypointType)},
			"bounds":            &graphql.Field{Type: boundsType},
			"total_distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"species": &graphql.Field{
				Type:        graphql.NewList(profileType),
				Description: "Every species card in catalog order",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Species.List(), nil
				},
			},
			"speciesByName": &graphql.Field{
				Type:        profileType,
				Description: "One species card by display name or slug",
				Args: graphql.FieldConfigArgument{
					"species": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := speciesArg(p)
					if err != nil {
						return nil, err
					}
					return deps.Species.Get(id)
				},
			},
			"migration": &graphql.Field{
				Type:        timelineType,
				Description: "Migration timeline for a species",
				Args: graphql.FieldConfigArgument{
					"species": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := speciesArg(p)
					if err != nil {
						return nil, err
					}
					view, err := deps.Migration.Timeline(p.Context, id)
					if err != nil {
						return nil, err
					}
					wps := make([]map[string]any, 0, len(view.Waypoints))
					for _, wv := range view.Waypoints {
						wps = append(wps, waypointMap(wv))
					}
					return map[string]any{
						"species":           string(view.Species),
						"waypoints":         wps,
						"bounds":            view.Bounds,
						"total_distance_km": view.TotalDistanceKm,
					}, nil
				},
			},
			"waypoint": &graphql.Field{
				Type:        waypointType,
				Description: "Where a species is in a given month",
				Args: graphql.FieldConfigArgument{
					"species": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"month":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, err := speciesArg(p)
					if err != nil {
						return nil, err
					}
					wv, err := deps.Migration.WaypointAt(p.Context, id, p.Args["month"].(string))
					if err != nil {
						return nil, err
					}
					return waypointMap(*wv), nil
				},
			},
			"recent": &graphql.Field{
				Type:        graphql.NewList(identificationType),
				Description: "Recent sightings, newest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Identifications.Recent(p.Context, p.Args["limit"].(int))
				},
			},
			"identifications": &graphql.Field{
				Type:        pageType,
				Description: "Page through the identification history",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					offset, limit := usecases.HistoryPage(p.Args["offset"].(int), p.Args["limit"].(int))
					items, total, err := deps.Identifications.History(p.Context, offset, limit)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"items":  items,
						"offset": offset,
						"limit":  limit,
						"total":  total,
					}, nil
				},
			},
			"classify": &graphql.Field{
				Type:        identifyResultType,
				Description: "Classify a description without recording it",
				Args: graphql.FieldConfigArgument{
					"text": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					ident := deps.Identifications.Classify(p.Context, p.Args["text"].(string), domain.SourceText)
					return deps.identifyResponse(ident), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"identify": &graphql.Field{
				Type:        identifyResultType,
				Description: "Classify a text or voice description and record it",
				Args: graphql.FieldConfigArgument{
					"text":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"source": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.SourceText)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					source, err := domain.ParseInputSource(p.Args["source"].(string))
					if err != nil {
						return nil, err
					}
					ident, err := deps.Identifications.Identify(p.Context, p.Args["text"].(string), source)
					if err != nil {
						return nil, err
					}
					return deps.identifyResponse(ident), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
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
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
