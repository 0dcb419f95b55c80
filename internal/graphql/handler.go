package graphql

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

type requestBody struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type Handler struct {
	schema graphql.Schema
}

func NewHandler(schema graphql.Schema) *Handler {
	return &Handler{schema: schema}
}

// Serve executes a query sent as a JSON body or, for GET, as query
// parameters. The request context carries the caller identity.
func (h *Handler) Serve(c *gin.Context) {
	var req requestBody
	if c.Request.Method == http.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				badRequest(c, "Variables are invalid JSON.")
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "POST body sent invalid JSON.")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		badRequest(c, "Must provide query string.")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})
	c.JSON(http.StatusOK, result)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"errors": []gin.H{{"message": message}},
	})
}
