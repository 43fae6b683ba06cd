package query

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	bigquery "google.golang.org/api/bigquery/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Request limits sent with every remote query.
const (
	remoteMaxResults = 1000
	remoteTimeoutMs  = 30000
)

// BigQueryClient runs queries through the BigQuery REST API using the
// session's access token.
type BigQueryClient struct {
	svc *bigquery.Service
}

// NewBigQueryClient builds a client authorized by the given access token.
func NewBigQueryClient(ctx context.Context, accessToken string) (*BigQueryClient, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := bigquery.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create bigquery service: %w", err)
	}
	return &BigQueryClient{svc: svc}, nil
}

// BigQueryFactory is the production ClientFactory.
func BigQueryFactory() ClientFactory {
	return func(ctx context.Context, accessToken string) (Client, error) {
		return NewBigQueryClient(ctx, accessToken)
	}
}

// Query runs a synchronous standard-SQL query in the given project.
func (c *BigQueryClient) Query(ctx context.Context, sqlText, projectID string) (*TableData, error) {
	req := &bigquery.QueryRequest{
		Query:        sqlText,
		UseLegacySql: googleapi.Bool(false),
		MaxResults:   remoteMaxResults,
		TimeoutMs:    remoteTimeoutMs,
	}

	resp, err := c.svc.Jobs.Query(projectID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("bigquery query: %w", err)
	}

	data := &TableData{}
	if resp.JobReference != nil {
		data.JobID = resp.JobReference.JobId
	}
	if resp.Schema != nil {
		data.Schema = make([]Column, 0, len(resp.Schema.Fields))
		for _, f := range resp.Schema.Fields {
			data.Schema = append(data.Schema, Column{Name: f.Name, Type: f.Type})
		}
	}
	data.Rows = make([][]interface{}, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		values := make([]interface{}, len(row.F))
		for i, cell := range row.F {
			values[i] = cell.V
		}
		data.Rows = append(data.Rows, values)
	}

	return data, nil
}

// CatalogTable names one table visible to the schema browser.
type CatalogTable struct {
	Dataset string `json:"dataset"`
	Table   string `json:"table"`
}

// Catalog limits, to keep the schema browser responsive on large projects.
const (
	catalogMaxDatasets = 25
	catalogMaxTables   = 100
)

// ListCatalog enumerates datasets and their tables for the schema browser.
func (c *BigQueryClient) ListCatalog(ctx context.Context, projectID string) ([]CatalogTable, error) {
	datasets, err := c.svc.Datasets.List(projectID).MaxResults(catalogMaxDatasets).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("bigquery list datasets: %w", err)
	}

	var out []CatalogTable
	for _, ds := range datasets.Datasets {
		if ds.DatasetReference == nil {
			continue
		}
		tables, err := c.svc.Tables.List(projectID, ds.DatasetReference.DatasetId).
			MaxResults(catalogMaxTables).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("bigquery list tables in %s: %w", ds.DatasetReference.DatasetId, err)
		}
		for _, tbl := range tables.Tables {
			if tbl.TableReference == nil {
				continue
			}
			out = append(out, CatalogTable{
				Dataset: ds.DatasetReference.DatasetId,
				Table:   tbl.TableReference.TableId,
			})
		}
	}
	return out, nil
}

// MockCatalog is the fixed offline catalog shown when no authenticated
// session is available.
func MockCatalog() []CatalogTable {
	return []CatalogTable{
		{Dataset: "samples", Table: "numbers"},
		{Dataset: "samples", Table: "events"},
		{Dataset: "samples", Table: "users"},
	}
}
