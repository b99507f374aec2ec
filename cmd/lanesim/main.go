package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/kyle/bowling-center-server/internal/lanenet"
)

// lanesim pretends to be one lane unit. It registers, heartbeats, and
// plays through a quick game against a running server so the lane
// protocol can be exercised without hardware.

func main() {
	addr := flag.String("addr", "localhost:9090", "lane server address")
	laneID := flag.Int("lane", 1, "lane id to register as")
	bowlers := flag.Int("bowlers", 2, "bowlers in the simulated game")
	heartbeat := flag.Duration("heartbeat", 5*time.Second, "heartbeat interval")
	idle := flag.Bool("idle", false, "register and heartbeat only, no game")
	flag.Parse()

	if *laneID <= 0 {
		fmt.Println("Error: --lane must be positive")
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *addr, err)
	}
	defer conn.Close()

	sim := &simulator{
		conn:   conn,
		laneID: *laneID,
	}

	go sim.readLoop()

	sim.send(lanenet.TypeRegistration, lanenet.RegistrationPayload{LaneID: *laneID})

	go sim.heartbeatLoop(*heartbeat)

	if !*idle {
		// Give registration a moment to land before starting the game.
		time.Sleep(500 * time.Millisecond)
		sim.playQuickGame(*bowlers)
	}

	select {}
}

type simulator struct {
	conn   net.Conn
	laneID int
}

func (s *simulator) send(msgType lanenet.MessageType, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Fatalf("failed to marshal %s payload: %v", msgType, err)
	}
	frame, err := json.Marshal(lanenet.Inbound{Type: msgType, Data: raw})
	if err != nil {
		log.Fatalf("failed to marshal %s frame: %v", msgType, err)
	}
	frame = append(frame, '\n')
	if _, err := s.conn.Write(frame); err != nil {
		log.Fatalf("write failed: %v", err)
	}
	log.Printf("-> %s", msgType)
}

func (s *simulator) heartbeatLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.send(lanenet.TypeHeartbeat, struct{}{})
	}
}

// readLoop answers server commands the way the real lane firmware does:
// every mutating command gets its acknowledgement frame.
func (s *simulator) readLoop() {
	scanner := bufio.NewScanner(s.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		var out lanenet.Outbound
		if err := json.Unmarshal(scanner.Bytes(), &out); err != nil {
			log.Printf("unreadable frame: %v", err)
			continue
		}
		log.Printf("<- %s", out.Type)

		switch out.Type {
		case lanenet.TypeHoldToggle:
			var p lanenet.HoldTogglePayload
			decodeData(out.Data, &p)
			s.send(lanenet.TypeHoldAcknowledged, lanenet.HoldAckPayload{Held: p.Hold})
		case lanenet.TypeUpdateBall:
			var p lanenet.UpdateBallPayload
			decodeData(out.Data, &p)
			s.send(lanenet.TypeBallUpdateAcknowledged, lanenet.BallUpdateAckPayload{
				BowlerName: p.BowlerName,
				Frame:      p.Frame,
				Ball:       p.Ball,
				NewValue:   p.NewValue,
				Applied:    true,
			})
		case lanenet.TypeRevertLastBall:
			s.send(lanenet.TypeRevertAcknowledged, lanenet.RevertAckPayload{})
		case lanenet.TypeShutdownLane:
			s.send(lanenet.TypeShutdownAcknowledged, struct{}{})
		}
	}
	log.Println("connection closed")
	os.Exit(0)
}

func decodeData(data any, v any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	json.Unmarshal(raw, v)
}

// playQuickGame announces a quick game and grinds through ten frames
// per bowler with random pinfall, then reports the final scores.
func (s *simulator) playQuickGame(bowlerCount int) {
	names := make([]string, bowlerCount)
	for i := range names {
		names[i] = fmt.Sprintf("Sim Bowler %d", i+1)
	}

	s.send(lanenet.TypeQuickGameUpdate, lanenet.QuickGameUpdatePayload{
		Bowlers:    names,
		TotalGames: 1,
	})

	scores := make([]lanenet.ScorePayload, bowlerCount)
	for i, name := range names {
		scores[i] = lanenet.ScorePayload{BowlerName: name}
	}

	for frame := 1; frame <= 10; frame++ {
		for i, name := range names {
			running := &scores[i]
			first := rand.Intn(11)
			running.Scratch += first
			running.BallsThrown++
			s.send(lanenet.TypeBallThrown, lanenet.BallThrownPayload{
				BowlerName: name,
				Frame:      frame,
				Ball:       1,
				Pins:       first,
				IsStrike:   first == 10,
			})
			time.Sleep(50 * time.Millisecond)

			frameTotal := first
			if first < 10 {
				second := rand.Intn(11 - first)
				running.Scratch += second
				running.BallsThrown++
				frameTotal += second
				s.send(lanenet.TypeBallThrown, lanenet.BallThrownPayload{
					BowlerName: name,
					Frame:      frame,
					Ball:       2,
					Pins:       second,
					IsSpare:    first+second == 10,
				})
				if first+second == 10 {
					running.Spares++
				}
			} else {
				running.Strikes++
			}

			s.send(lanenet.TypeFrameComplete, lanenet.FrameCompletePayload{
				BowlerName:   name,
				Frame:        frame,
				FrameTotal:   frameTotal,
				RunningTotal: running.Scratch,
			})
			time.Sleep(50 * time.Millisecond)
		}
	}

	s.send(lanenet.TypeGameComplete, lanenet.GameCompletePayload{
		GameType: "quick",
		Scores:   scores,
	})
	for _, sc := range scores {
		log.Printf("final: %s scratch=%d strikes=%d spares=%d", sc.BowlerName, sc.Scratch, sc.Strikes, sc.Spares)
	}
}
