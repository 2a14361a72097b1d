// Package graphDB mirrors the emulated topology into neo4j so that the
// current shape of every link can be inspected while events run.
package graphDB

import (
	"context"
	"sync"

	"github.com/David-Antunes/netsim/internal/network"
	"github.com/David-Antunes/netsim/internal/topology"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const database = "neo4j"

// Querier runs one write statement.
type Querier interface {
	Query(ctx context.Context, query string, args map[string]any) error
}

type driverQuerier struct {
	driver neo4j.DriverWithContext
}

func (d *driverQuerier) Query(ctx context.Context, query string, args map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, d.driver, query,
		args, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(database))
	return err
}

type Mirror struct {
	sync.Mutex
	q      Querier
	driver neo4j.DriverWithContext
}

// Connect opens a driver on uri ("neo4j://localhost") and checks that the
// server answers. An empty user connects without authentication.
func Connect(ctx context.Context, uri string, user string, password string) (*Mirror, error) {
	auth := neo4j.NoAuth()
	if user != "" {
		auth = neo4j.BasicAuth(user, password, "")
	}
	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return &Mirror{q: &driverQuerier{driver}, driver: driver}, nil
}

// NewMirror wraps an existing Querier.
func NewMirror(q Querier) *Mirror {
	return &Mirror{q: q}
}

func (m *Mirror) Close(ctx context.Context) error {
	if m.driver == nil {
		return nil
	}
	return m.driver.Close(ctx)
}

// Publish replaces the graph with the servers and the bottleneck links.
// Links start with the default shaping until an event updates them.
func (m *Mirror) Publish(ctx context.Context, servers []string, bottlenecks []topology.Bottleneck) error {
	m.Lock()
	defer m.Unlock()

	if err := m.clear(ctx); err != nil {
		return err
	}

	for _, ip := range servers {
		err := m.q.Query(ctx, `MERGE (n:Host {ip: $ip}) SET n.server = true`,
			map[string]any{
				"ip": ip,
			})
		if err != nil {
			return err
		}
	}

	def := network.NewRequest(network.Update, "")
	for _, b := range bottlenecks {
		err := m.q.Query(ctx,
			`MERGE (a:Host {ip: $from})
			MERGE (b:Host {ip: $to})
			MERGE (a)-[l:LINK {class: $class}]->(b)
			SET l.bandwidth = $bandwidth, l.latency = $latency`,
			map[string]any{
				"from":      b.From,
				"to":        b.To,
				"class":     b.Class,
				"bandwidth": def.Bandwidth,
				"latency":   def.Latency,
			})
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateLink records the shaping an event gave to a traffic class.
func (m *Mirror) UpdateLink(ctx context.Context, class int, bandwidth string, latency string) error {
	m.Lock()
	defer m.Unlock()
	return m.q.Query(ctx,
		`MATCH ()-[l:LINK {class: $class}]->()
		SET l.bandwidth = $bandwidth, l.latency = $latency, l.kbps = $kbps, l.ms = $ms`,
		map[string]any{
			"class":     class,
			"bandwidth": bandwidth,
			"latency":   latency,
			"kbps":      network.BandwidthToKbps(bandwidth),
			"ms":        network.LatencyToMs(latency),
		})
}

// Clear removes every host and link.
func (m *Mirror) Clear(ctx context.Context) error {
	m.Lock()
	defer m.Unlock()
	return m.clear(ctx)
}

func (m *Mirror) clear(ctx context.Context) error {
	return m.q.Query(ctx, `MATCH (n:Host) DETACH DELETE n`, map[string]any{})
}
