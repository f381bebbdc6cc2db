package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var triviaCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Answer an AI challenge question",
	Long: `Ask the AI for a trivia question. A correct answer adds the reward to
your balance. Set GEMINI_API_KEY (or put it in .env) to get fresh
questions; without it a built-in question is used.`,
	Run: runTrivia,
}

func runTrivia(cmd *cobra.Command, _ []string) {
	e := mustEnv(os.Stderr)
	defer e.Close()

	ctx := cmd.Context()
	p, err := e.currentUser(ctx)
	exitOn(e, err)

	fmt.Println("Generating question...")
	q, err := e.trivia.Generate(ctx)
	exitOn(e, err)

	fmt.Printf("\n%s  (reward %s)\n\n", q.Question, q.RewardAmount())
	for i, opt := range q.Options {
		fmt.Printf("  %d) %s\n", i+1, opt)
	}
	fmt.Print("\nYour answer: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		exitOn(e, fmt.Errorf("no answer: %w", err))
	}
	answer := strings.TrimSpace(line)
	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(q.Options) {
		answer = q.Options[n-1]
	}

	if !q.Correct(answer) {
		fmt.Printf("Wrong! The answer was %s.\n", q.CorrectAnswer)
		return
	}
	p, err = e.wallet.AddBalance(ctx, p.ID, q.RewardAmount())
	exitOn(e, err)
	fmt.Printf("Correct! %s added, balance %s\n", q.RewardAmount(), p.Balance)
}
