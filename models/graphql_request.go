package models

type GraphQLRequest struct {
	Query         string                 `json:"query" form:"query" binding:"required"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables" form:"-"`
}
