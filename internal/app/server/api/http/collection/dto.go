package collection

import "shelfkeeper/internal/domain/remote"

type createInput struct {
	Collection string         `path:"collection" example:"items" doc:"Коллекция: items, products, fridges, categories, users"`
	Body       map[string]any `doc:"Поля документа, null не допускается"`
}

type createOutput struct {
	Body createResponse
}

type createResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type patchInput struct {
	Collection string         `path:"collection" example:"items"`
	ID         string         `path:"id" doc:"ID документа"`
	Body       map[string]any `doc:"Изменяемые поля"`
}

type deleteInput struct {
	Collection string `path:"collection" example:"items"`
	ID         string `path:"id" doc:"ID документа"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}

type queryInput struct {
	Collection string `path:"collection" example:"items"`
	Field      string `query:"field" required:"true" example:"businessId" doc:"Имя поля"`
	Value      string `query:"value" doc:"Значение поля"`
	Type       string `query:"type" enum:"string,number,bool" default:"string" doc:"Тип значения"`
}

type queryOutput struct {
	Body queryResponse
}

type queryResponse struct {
	Documents []remote.Document `json:"documents"`
}
