package api

import (
	"goeda/domain/dataset"
	domainstats "goeda/domain/stats"
)

// Every request carries the full dataset; the server keeps no state between calls.
type datasetCarrier interface {
	payload() dataset.Dataset
}

func (r DatasetRequest) payload() dataset.Dataset    { return r.Dataset }
func (r ConvertRequest) payload() dataset.Dataset    { return r.Dataset }
func (r MissingRequest) payload() dataset.Dataset    { return r.Dataset }
func (r StrategiesRequest) payload() dataset.Dataset { return r.Dataset }
func (r DetectRequest) payload() dataset.Dataset     { return r.Dataset }
func (r FixRequest) payload() dataset.Dataset        { return r.Dataset }
func (r OutliersRequest) payload() dataset.Dataset   { return r.Dataset }
func (r DescribeRequest) payload() dataset.Dataset   { return r.Dataset }
func (r AnalyzeRequest) payload() dataset.Dataset    { return r.Dataset }

type DatasetRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
}

type IngestResponse struct {
	Dataset dataset.Dataset `json:"dataset"`
	Types   dataset.TypeMap `json:"types"`
}

type ClassifyResponse struct {
	Types dataset.TypeMap `json:"types"`
}

type ConvertRequest struct {
	Dataset dataset.Dataset    `json:"dataset"`
	Column  string             `json:"column"`
	Target  dataset.ColumnType `json:"target"`
	Policy  string             `json:"policy,omitempty"`
}

type ConvertResponse struct {
	Column dataset.Column `json:"column"`
}

type MissingRequest struct {
	Dataset  dataset.Dataset `json:"dataset"`
	Columns  []string        `json:"columns"`
	Strategy string          `json:"strategy"`
	Marker   string          `json:"marker,omitempty"`
}

// BatchResponse is returned by operations that touch several columns
type BatchResponse struct {
	Dataset  dataset.Dataset             `json:"dataset"`
	Outcomes []dataset.ColumnOutcome     `json:"outcomes"`
	Reports  []domainstats.OutlierReport `json:"reports,omitempty"`
}

type StrategiesRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
	Column  string          `json:"column"`
}

type StrategiesResponse struct {
	Column     string   `json:"column"`
	Strategies []string `json:"strategies"`
}

type DetectRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
	Column  string          `json:"column"`
	Method  string          `json:"method"`
}

type FixRequest struct {
	Dataset dataset.Dataset           `json:"dataset"`
	Column  string                    `json:"column"`
	Report  domainstats.OutlierReport `json:"report"`
	Method  string                    `json:"method"`
}

type OutliersRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
	Columns []string        `json:"columns"`
	Detect  string          `json:"detect"`
	Fix     string          `json:"fix"`
}

type DescribeRequest struct {
	Dataset dataset.Dataset `json:"dataset"`
	Columns []string        `json:"columns,omitempty"`
}

type DescribeResponse struct {
	Results []domainstats.Univariate `json:"results"`
}

type AnalyzeRequest struct {
	Dataset   dataset.Dataset `json:"dataset"`
	X         string          `json:"x"`
	Y         string          `json:"y"`
	Covariate string          `json:"covariate,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
