// Package graph exposes a read-only GraphQL view of the catalog.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/rewearhq/rewear/app/repositories"
	gql "github.com/rewearhq/rewear/pkg/graphql"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var itemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Item",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"size":        &graphql.Field{Type: graphql.String},
		"condition":   &graphql.Field{Type: graphql.String},
		"point_cost":  &graphql.Field{Type: graphql.Int},
		"status":      &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the public catalog schema. Only approved items are
// reachable, so the endpoint needs no authentication.
func NewSchema() (graphql.Schema, error) {
	items := repositories.NewItemRepository()
	categories := repositories.NewCategoryRepository()

	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewList(itemType),
				Args: graphql.FieldConfigArgument{
					"category_id": &graphql.ArgumentConfig{Type: graphql.Int},
					"condition":   &graphql.ArgumentConfig{Type: graphql.String},
					"search":      &graphql.ArgumentConfig{Type: graphql.String},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":       &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := repositories.ItemFilter{}
					if v, ok := p.Args["category_id"].(int); ok {
						f.CategoryID = uint(v)
					}
					if v, ok := p.Args["condition"].(string); ok {
						f.Condition = v
					}
					if v, ok := p.Args["search"].(string); ok {
						f.Search = v
					}
					if v, ok := p.Args["page"].(int); ok {
						f.Page = v
					}
					if v, ok := p.Args["limit"].(int); ok {
						f.Limit = v
					}
					list, _, err := items.List(f)
					return list, err
				},
			},
			"item": &graphql.Field{
				Type: itemType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					item, err := items.FindByID(uint(id))
					if err != nil {
						return nil, err
					}
					if !item.IsApproved {
						return nil, nil
					}
					return item, nil
				},
			},
			"featured": &graphql.Field{
				Type: graphql.NewList(itemType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return items.Featured()
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categories.All()
				},
			},
		},
	})

	return gql.NewSchema(root)
}
