// Command solvecli runs a frame analysis on a model JSON file and prints
// a summary, for batch checks without the web service.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"

	frame "Statica/internal/calc/frame"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s model.json\n", os.Args[0])
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	var req frame.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Fatal("parsing model:", err)
	}

	resp := frame.NewSolver().Solve(&req)
	if !resp.Success {
		log.Fatal("solve failed:", resp.Error)
	}

	fmt.Println("Node   ux            uy            rz            Rx            Ry            Rm")
	for i, nid := range resp.NodeIDOrder {
		fmt.Printf("%4d   %- 12.5g  %- 12.5g  %- 12.5g  %- 12.5g  %- 12.5g  %- 12.5g\n",
			nid,
			resp.Displacements[3*i], resp.Displacements[3*i+1], resp.Displacements[3*i+2],
			resp.Reactions[3*i], resp.Reactions[3*i+1], resp.Reactions[3*i+2])
	}

	ids := make([]int, 0, len(resp.BeamForces))
	byID := make(map[int]frame.BeamForces, len(resp.BeamForces))
	for _, bf := range resp.BeamForces {
		ids = append(ids, bf.ElementID)
		byID[bf.ElementID] = bf
	}
	sort.Ints(ids)

	fmt.Println()
	fmt.Println("Beam   max|N|        max|V|        max|M|")
	for _, id := range ids {
		bf := byID[id]
		fmt.Printf("%4d   %- 12.5g  %- 12.5g  %- 12.5g\n", id, bf.MaxN, bf.MaxV, bf.MaxM)
	}
}
