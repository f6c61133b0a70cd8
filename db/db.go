package db

import (
	"strconv"

	"github.com/jsphweid/maestro/constants"
	"github.com/jsphweid/maestro/model"
	"github.com/pkg/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

// MaxBatch is the most filenames GetMidiMetadatas accepts per call.
const MaxBatch = 10

type Client struct {
	api   dynamodbiface.DynamoDBAPI
	table string
}

// New returns nil when no metadata endpoint is configured.
func New() (*Client, error) {
	endpoint := constants.GetMetadataEndpoint()
	if endpoint == "" {
		return nil, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewWithAPI(dynamodb.New(sess), constants.GetMetadataTable()), nil
}

func NewWithAPI(api dynamodbiface.DynamoDBAPI, table string) *Client {
	return &Client{api: api, table: table}
}

func (c *Client) GetMidiMetadatas(filenames []string) (map[string]model.MidiMetadata, error) {
	if len(filenames) > MaxBatch {
		return nil, errors.Errorf("at most %d filenames per lookup, got %d", MaxBatch, len(filenames))
	}

	res := make(map[string]model.MidiMetadata)

	if c == nil || len(filenames) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, filename := range filenames {
		key := make(map[string]*dynamodb.AttributeValue)
		key["PK"] = &dynamodb.AttributeValue{
			S: aws.String(filename),
		}
		keys = append(keys, key)
	}

	input := &dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			c.table: {Keys: keys},
		},
	}
	dbres, err := c.api.BatchGetItem(input)
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}

	for _, v := range dbres.Responses[c.table] {
		if v["PK"] == nil || v["PK"].S == nil {
			continue
		}
		var s model.MidiMetadata
		if v["Year"] != nil && v["Year"].N != nil {
			year, _ := strconv.ParseUint(*v["Year"].N, 10, 32)
			s.Year = uint(year)
		}
		s.Artist = str(v["Artist"])
		s.Release = str(v["Release"])
		s.Title = str(v["Title"])
		res[*v["PK"].S] = s
	}

	return res, nil
}

// GetAll looks filenames up in batches of MaxBatch.
func (c *Client) GetAll(filenames []string) (map[string]model.MidiMetadata, error) {
	res := make(map[string]model.MidiMetadata)
	for start := 0; start < len(filenames); start += MaxBatch {
		end := start + MaxBatch
		if end > len(filenames) {
			end = len(filenames)
		}
		batch, err := c.GetMidiMetadatas(filenames[start:end])
		if err != nil {
			return nil, err
		}
		for k, v := range batch {
			res[k] = v
		}
	}
	return res, nil
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}
