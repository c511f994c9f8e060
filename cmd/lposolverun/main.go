// lposolverun: Executable for exercising lposolve
// 01   Aug.  6, 2026   Initial version

// This file contains a menu-driven demo of lposolve, grounded on the
// options-list-and-fmt.Scanln style of the package's own lporun example:
// print a numbered menu, read a selection, run one lposolve entrypoint,
// print its result, repeat until the user exits.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-opt/lposolve"
)

var reader = bufio.NewReader(os.Stdin)

func printOptions() {
	fmt.Println("\nAvailable Options:")
	fmt.Println(" 0 - EXIT program")
	fmt.Println(" 1 - solve the built-in sample LP")
	fmt.Println(" 2 - solve the built-in sample MILP (knapsack)")
	fmt.Println(" 3 - parse and reformat an LP text file")
	fmt.Println(" 4 - display the last successfully solved model")
}

func main() {
	for {
		printOptions()
		fmt.Print("\nSelect an option: ")
		choice := readLine()

		switch choice {
		case "0":
			return
		case "1":
			runSampleLP()
		case "2":
			runSampleMILP()
		case "3":
			runReformat()
		case "4":
			runLastSolved()
		default:
			fmt.Println("Unrecognized option.")
		}
	}
}

func readLine() string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func runSampleLP() {
	m := lposolve.NewModel()
	m.OpType = lposolve.Maximize
	m.Optimize = "profit"
	m.Variables["profit"] = map[string]float64{"x": 3, "y": 5}
	max1 := 4.0
	max2 := 12.0
	max3 := 18.0
	m.Constraints["c1"] = lposolve.Constraint{Max: &max1}
	m.Variables["c1"] = map[string]float64{"x": 1}
	m.Constraints["c2"] = lposolve.Constraint{Max: &max2}
	m.Variables["c2"] = map[string]float64{"y": 2}
	m.Constraints["c3"] = lposolve.Constraint{Max: &max3}
	m.Variables["c3"] = map[string]float64{"x": 3, "y": 2}

	sol, err := lposolve.Solve(m, lposolve.SolveParams{Validate: true})
	if err != nil {
		fmt.Printf("solve failed: %v\n", err)
		return
	}
	printSolution(sol)
}

func runSampleMILP() {
	m := lposolve.NewModel()
	m.OpType = lposolve.Maximize
	m.Optimize = "value"
	m.Variables["value"] = map[string]float64{"item1": 60, "item2": 100, "item3": 120}
	weightCap := 50.0
	m.Constraints["weight"] = lposolve.Constraint{Max: &weightCap}
	m.Variables["weight"] = map[string]float64{"item1": 10, "item2": 20, "item3": 30}
	m.Binaries["item1"] = true
	m.Binaries["item2"] = true
	m.Binaries["item3"] = true

	sol, err := lposolve.Solve(m, lposolve.SolveParams{Validate: true, Full: true})
	if err != nil {
		fmt.Printf("solve failed: %v\n", err)
		return
	}
	printSolution(sol)
}

func runReformat() {
	fmt.Print("Path to LP text file: ")
	path := readLine()
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("failed to read %q: %v\n", path, err)
		return
	}
	m, err := lposolve.ParseLP(strings.Split(string(data), "\n"))
	if err != nil {
		fmt.Printf("parse failed: %v\n", err)
		return
	}
	for _, line := range lposolve.EmitLP(m) {
		fmt.Println(line)
	}
}

func runLastSolved() {
	m, ok := lposolve.LastSolvedModel()
	if !ok {
		fmt.Println("no model has been solved yet")
		return
	}
	for _, line := range lposolve.EmitLP(m) {
		fmt.Println(line)
	}
}

func printSolution(sol lposolve.Solution) {
	fmt.Printf("\nstatus: %s\n", sol.Status)
	if !sol.Feasible {
		return
	}
	fmt.Printf("objective: %s\n", strconv.FormatFloat(sol.Result, 'g', -1, 64))
	if sol.Nodes > 0 {
		fmt.Printf("branch-and-bound nodes explored: %d\n", sol.Nodes)
		fmt.Printf("integral: %v\n", sol.IsIntegral)
	}
	for name, v := range sol.Variables {
		fmt.Printf("  %-12s = %v\n", name, v)
	}
}
