package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const apiBase = "http://localhost:8080/api/v1"

type Operator struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Token       string `json:"token"`
	OperatorID  string `json:"operatorId"`
}

type RegisterResponse struct {
	Operator struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"operator"`
	AccessToken string `json:"accessToken"`
}

type Created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ScheduleSummary struct {
	ScheduledMatches int `json:"scheduledMatches"`
	UnscheduledPairs int `json:"unscheduledPairs"`
}

func registerOperator(displayName, password string) (*Operator, error) {
	body, _ := json.Marshal(map[string]string{
		"displayName": displayName,
		"password":    password,
	})

	resp, err := http.Post(apiBase+"/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("registration failed (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	return &Operator{
		DisplayName: result.Operator.DisplayName,
		Password:    password,
		Token:       result.AccessToken,
		OperatorID:  result.Operator.ID,
	}, nil
}

func postJSON(token, path string, payload any, out any) error {
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", apiBase+path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (%d): %s", path, resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

func createBowler(token, name string) (*Created, error) {
	var bowler Created
	err := postJSON(token, "/bowlers", map[string]string{
		"name":  name,
		"email": fmt.Sprintf("%s@example.com", name),
	}, &bowler)
	if err != nil {
		return nil, err
	}
	return &bowler, nil
}

func createLeague(token string) (*Created, error) {
	start := time.Now().AddDate(0, 0, 1)
	payload := map[string]any{
		"name":          "Test Thursday League",
		"startDate":     start.Format(time.RFC3339),
		"endDate":       start.AddDate(0, 0, 8*7).Format(time.RFC3339),
		"numberOfWeeks": 8,
		"laneIds":       []int{1, 2},
		"rules": map[string]any{
			"average": map[string]any{"type": "total_pins_per_game"},
			"handicap": map[string]any{
				"type":       "percentage_based",
				"highValue":  220,
				"percentage": 0.8,
			},
			"absent":  map[string]any{"type": "percentage_of_average", "percentage": 0.9},
			"preBowl": map[string]any{"enabled": true},
			"points":  map[string]any{"type": "win_loss_tie", "winPoints": 2, "tiePoints": 1},
		},
	}

	var league Created
	if err := postJSON(token, "/leagues", payload, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

func addTeam(token, leagueID, name string, bowlerIDs []string) (*Created, error) {
	var team Created
	err := postJSON(token, "/leagues/"+leagueID+"/teams", map[string]any{
		"name":      name,
		"bowlerIds": bowlerIDs,
	}, &team)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func generateOperatorName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	random := make([]byte, 4)
	for i := range random {
		random[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("desk_%d_%s", time.Now().Unix(), string(random))
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Printf("Setting up a test league...\n\n")

	password := "testpassword123"

	fmt.Println("Registering front-desk operator...")
	operator, err := registerOperator(generateOperatorName(), password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register operator: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Operator: %s\n", operator.DisplayName)

	fmt.Println("\nCreating 4 bowlers...")
	names := []string{"ann", "ben", "cam", "dee"}
	var bowlers []*Created
	for i, name := range names {
		bowler, err := createBowler(operator.Token, name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create bowler %d: %v\n", i+1, err)
			os.Exit(1)
		}
		bowlers = append(bowlers, bowler)
		fmt.Printf("  ✓ Bowler %d: %s\n", i+1, bowler.Name)
	}

	fmt.Println("\nCreating league...")
	league, err := createLeague(operator.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create league: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ League created: %s\n", league.Name)

	fmt.Println("\nAdding teams...")
	team1, err := addTeam(operator.Token, league.ID, "Pin Pals", []string{bowlers[0].ID, bowlers[1].ID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add team 1: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Team 1: %s\n", team1.Name)

	team2, err := addTeam(operator.Token, league.ID, "Split Happens", []string{bowlers[2].ID, bowlers[3].ID})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add team 2: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Team 2: %s\n", team2.Name)

	fmt.Println("\nGenerating schedule...")
	var schedule ScheduleSummary
	if err := postJSON(operator.Token, "/leagues/"+league.ID+"/schedule", nil, &schedule); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate schedule: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  ✓ Scheduled %d matches (%d pairs could not be placed)\n",
		schedule.ScheduledMatches, schedule.UnscheduledPairs)

	fmt.Println("\n" + "============================================================")
	fmt.Println("TEST LEAGUE SETUP COMPLETE")
	fmt.Println("============================================================")

	fmt.Println("\nLeague Info:")
	fmt.Printf("  ID: %s\n", league.ID)
	fmt.Printf("  Name: %s\n", league.Name)
	fmt.Printf("  Teams: %s, %s\n", team1.Name, team2.Name)

	fmt.Printf("\nOperator login: %s / %s\n", operator.DisplayName, operator.Password)

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Connect a lane: go run ./cmd/lanesim -lane 1 -bowlers 2")
	fmt.Printf("  2. Push the league config: POST /api/v1/lanes/1/command\n")
	fmt.Printf("     {\"command\": \"league_config\", \"leagueId\": \"%s\"}\n", league.ID)
	fmt.Printf("  3. Watch standings: GET /api/v1/leagues/%s/standings\n", league.ID)
}
