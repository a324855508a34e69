package main

import (
	"net/http"

	"crossexam/internal/contexthelpers"
	"crossexam/internal/interview"
	"crossexam/internal/models"
)

type BaseTemplateData struct {
	CurrentPath string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	return BaseTemplateData{
		CurrentPath: contexthelpers.CurrentPath(r.Context()),
	}
}

type homeTemplateData struct {
	BaseTemplateData

	Difficulties []models.Difficulty
	ErrorMessage string
}

type interviewTemplateData struct {
	BaseTemplateData

	Snapshot     interview.Snapshot
	ErrorMessage string
}

type reportTemplateData struct {
	BaseTemplateData

	Snapshot interview.Snapshot
}
