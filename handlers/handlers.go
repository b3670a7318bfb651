package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// callerID extracts the authenticated caller's id set by the auth
// middleware. The gate middlewares guarantee it exists on protected
// routes, so a miss here is a server error, not a client one.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get("UserID")
	if !exists {
		return primitive.NilObjectID, false
	}
	hex, ok := v.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindMessage turns a binding failure into the client-facing message,
// naming the first offending field when the validator reports one.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("Invalid value for field '%s'", verrs[0].Field())
	}
	return "Invalid request body"
}
