package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jgreenfield/alfred/go/clients"
	"github.com/jgreenfield/alfred/go/clients/adp_client"
	"github.com/jgreenfield/alfred/go/internal/dbconfig"
	"github.com/jgreenfield/alfred/go/internal/models"
)

// SeedPlayer matches the import file layout: one player plus per-source
// ADP values.
type SeedPlayer struct {
	Name     string             `json:"name"`
	Position string             `json:"position"`
	Team     string             `json:"team"`
	Sources  map[string]float64 `json:"sources"`
}

// ffcPositions maps provider position labels onto the local enum.
var ffcPositions = map[string]string{
	"QB":  "QB",
	"RB":  "RB",
	"WR":  "WR",
	"TE":  "TE",
	"PK":  "K",
	"DEF": "DST",
}

func main() {
	var (
		file  = flag.String("file", "go/internal/assets/rankings.json", "JSON seed file")
		fetch = flag.Bool("fetch", false, "fetch ADP from the provider instead of reading a file")
		year  = flag.Int("year", adp_client.DefaultYear, "draft season year for fetched ADP")
		teams = flag.Int("teams", adp_client.DefaultTeams, "league size for fetched ADP")
	)
	flag.Parse()

	ctx := context.Background()

	var seeds []SeedPlayer
	var err error
	if *fetch {
		seeds, err = fetchSeeds(ctx, *year, *teams)
	} else {
		seeds, err = readSeeds(*file)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load seeds: %v\n", err)
		os.Exit(1)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect error: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	total, playersSeeded, valuesSeeded, errs := len(seeds), 0, 0, 0
	for _, s := range seeds {
		if !models.ValidPosition(models.Position(s.Position)) {
			fmt.Fprintf(os.Stderr, "skip %s: unknown position %q\n", s.Name, s.Position)
			errs++
			continue
		}
		team := s.Team
		if team == "" {
			team = models.TeamFreeAgent
		}
		if !models.ValidTeamCode(team) {
			fmt.Fprintf(os.Stderr, "skip %s: unknown team %q\n", s.Name, team)
			errs++
			continue
		}

		var playerID uuid.UUID
		err := pool.QueryRow(ctx, `
            INSERT INTO players (id, name, position, team, active)
            VALUES ($1, $2, $3, $4, TRUE)
            ON CONFLICT (name, position) DO UPDATE SET
                team = EXCLUDED.team,
                active = TRUE
            RETURNING id`,
			uuid.New(), s.Name, s.Position, team,
		).Scan(&playerID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed %s: %v\n", s.Name, err)
			errs++
			continue
		}
		playersSeeded++

		for source, adp := range s.Sources {
			_, err := pool.Exec(ctx, `
                INSERT INTO consensus_rankings (player_id, source, adp, ranked_on)
                VALUES ($1, $2, $3, CURRENT_DATE)
                ON CONFLICT (player_id, source) DO UPDATE SET
                    adp = EXCLUDED.adp,
                    ranked_on = EXCLUDED.ranked_on`,
				playerID, source, adp,
			)
			if err != nil {
				fmt.Fprintf(os.Stderr, "seed %s/%s: %v\n", s.Name, source, err)
				errs++
				continue
			}
			valuesSeeded++
		}
	}

	fmt.Printf("seeded %d/%d players, %d consensus values, %d errors\n",
		playersSeeded, total, valuesSeeded, errs)
	if errs > 0 {
		os.Exit(1)
	}
}

func readSeeds(path string) ([]SeedPlayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var seeds []SeedPlayer
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("unmarshal rankings: %w", err)
	}
	return seeds, nil
}

// fetchSeeds pulls every active provider format and merges the results per
// player, so one seed row carries one ADP value per scoring format.
func fetchSeeds(ctx context.Context, year, teams int) ([]SeedPlayer, error) {
	client := adp_client.NewADPClient()

	type key struct{ name, position string }
	merged := make(map[key]*SeedPlayer)
	var order []key

	for source, cfg := range clients.GetADPSources() {
		if !cfg.Active || cfg.Format == "" {
			continue
		}
		players, err := client.GetADP(ctx, cfg.Format, year, teams)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		for _, p := range players {
			position, ok := ffcPositions[p.Position]
			if !ok {
				continue
			}
			k := key{p.Name, position}
			seed, exists := merged[k]
			if !exists {
				seed = &SeedPlayer{
					Name:     p.Name,
					Position: position,
					Team:     p.Team,
					Sources:  make(map[string]float64),
				}
				merged[k] = seed
				order = append(order, k)
			}
			seed.Sources[string(source)] = p.ADP
		}
	}

	seeds := make([]SeedPlayer, 0, len(merged))
	for _, k := range order {
		seeds = append(seeds, *merged[k])
	}
	return seeds, nil
}
