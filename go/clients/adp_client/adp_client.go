package adp_client

import (
	"github.com/jgreenfield/alfred/go/clients"
)

type ADPClient struct {
	*clients.BaseClient
}

func NewADPClient() *ADPClient {
	return &ADPClient{
		BaseClient: clients.NewBaseClient(BaseURL),
	}
}
