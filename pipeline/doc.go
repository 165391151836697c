// Package pipeline assembles the registration, login and guard chains as
// gin handler lists over a configured identity spec and store.
//
//	a, err := pipeline.New(pipeline.Config{
//		Spec:   identity.MustSpec("email", "username"),
//		Store:  store,
//		Tokens: tokens,
//		Hasher: password.NewBcryptHasher(),
//	})
//	a.Mount(router.Group("/auth"))
//	router.GET("/me", a.Guard(), func(c *gin.Context) {
//		id, _ := pipeline.Subject(c)
//		...
//	})
//
// Registration runs Instrument, Bind, SchemaCheck, Validate, DuplicateCheck
// and Register in that order; login runs Instrument, Bind, SchemaCheck,
// Validate on the primary identity and Login. Every stage aborts the chain
// with a structured error response on failure.
package pipeline
