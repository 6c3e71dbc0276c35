package graphql

import (
	gql "github.com/graphql-go/graphql"
)

var userType = gql.NewObject(gql.ObjectConfig{
	Name: "User",
	Fields: gql.Fields{
		"id":       &gql.Field{Type: gql.NewNonNull(gql.ID)},
		"username": &gql.Field{Type: gql.NewNonNull(gql.String)},
		"email":    &gql.Field{Type: gql.String},
		"password": &gql.Field{Type: gql.NewNonNull(gql.String)},
	},
})

func inputObject(name string, fields ...string) *gql.InputObject {
	config := gql.InputObjectConfigFieldMap{}
	for _, f := range fields {
		config[f] = &gql.InputObjectFieldConfig{Type: gql.NewNonNull(gql.String)}
	}
	return gql.NewInputObject(gql.InputObjectConfig{Name: name, Fields: config})
}

var (
	signUpInput         = inputObject("SignUpInput", "username", "email", "password")
	signInInput         = inputObject("SignInInput", "email", "password")
	changePasswordInput = inputObject("ChangePasswordInput", "password", "newpassword")
	forgotPasswordInput = inputObject("ForgotPasswordInput", "email")
	setPasswordInput    = inputObject("SetPasswordInput", "token", "newpassword")
)

func dataArg(input *gql.InputObject) gql.FieldConfigArgument {
	return gql.FieldConfigArgument{
		"data": &gql.ArgumentConfig{Type: gql.NewNonNull(input)},
	}
}

// NewSchema builds the executable schema bound to r.
func NewSchema(r *Resolver) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"health": &gql.Field{
				Type:    gql.NewNonNull(gql.String),
				Resolve: r.health,
			},
		},
	})

	mutation := gql.NewObject(gql.ObjectConfig{
		Name: "Mutation",
		Fields: gql.Fields{
			"createUser": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    dataArg(signUpInput),
				Resolve: r.createUser,
			},
			"signIn": &gql.Field{
				Type:    gql.NewNonNull(gql.String),
				Args:    dataArg(signInInput),
				Resolve: r.signIn,
			},
			"changePassword": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    dataArg(changePasswordInput),
				Resolve: r.changePassword,
			},
			"forgotPassword": &gql.Field{
				Type:    gql.NewNonNull(gql.String),
				Args:    dataArg(forgotPasswordInput),
				Resolve: r.forgotPassword,
			},
			"setPassword": &gql.Field{
				Type:    gql.NewNonNull(userType),
				Args:    dataArg(setPasswordInput),
				Resolve: r.setPassword,
			},
		},
	})

	return gql.NewSchema(gql.SchemaConfig{Query: query, Mutation: mutation})
}
