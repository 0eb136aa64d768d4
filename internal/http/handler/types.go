package handler

import "rppapi/internal/model"

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type documentListResponse struct {
	Success        bool             `json:"success"`
	Time           string           `json:"time"`
	Message        string           `json:"message"`
	TotalDocuments int              `json:"total_documents"`
	Offset         int              `json:"offset"`
	Limit          int              `json:"limit"`
	Documents      []model.Document `json:"documents"`
}

type documentResponse struct {
	Success  bool            `json:"success"`
	Time     string          `json:"time,omitempty"`
	Message  string          `json:"message"`
	Document *model.Document `json:"document"`
}

type productListResponse struct {
	Success       bool            `json:"success"`
	Time          string          `json:"time"`
	Message       string          `json:"message"`
	TotalProducts int             `json:"total_products"`
	Offset        int             `json:"offset"`
	Limit         int             `json:"limit"`
	Products      []model.Product `json:"products"`
}

type productResponse struct {
	Success bool           `json:"success"`
	Time    string         `json:"time,omitempty"`
	Message string         `json:"message"`
	Product *model.Product `json:"product"`
}

type generateResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PDFURL   string `json:"pdfUrl"`
	FileName string `json:"fileName"`
}
