// Command zkchess is the player-side tool: it creates Groth16 keys, derives
// public keys from credentials, and proves and submits moves.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/Tejaaswini/zeroking/internal/client"
	"github.com/Tejaaswini/zeroking/internal/game"
	"github.com/Tejaaswini/zeroking/internal/model"
	"github.com/Tejaaswini/zeroking/internal/ws"
	"github.com/Tejaaswini/zeroking/internal/zkid"
)

const usage = `usage: zkchess <command> [flags]

commands:
  setup    run a development Groth16 setup and write both keys
  pubkey   print the public key for a credential and domain
  start    create a game between two public keys
  move     prove and submit a move
  act      prove and submit offerDraw, acceptDraw, rejectDraw or resign
  watch    stream state updates for a game`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "setup":
		err = runSetup(args)
	case "pubkey":
		err = runPubkey(args)
	case "start":
		err = runStart(args)
	case "move":
		err = runMove(args)
	case "act":
		err = runAct(args)
	case "watch":
		err = runWatch(args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func runSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	dir := fs.String("dir", "data/keys", "directory to write keys into")
	fs.Parse(args)

	keys, err := zkid.Setup()
	if err != nil {
		return err
	}
	vkPath, err := zkid.SaveKeys(keys, *dir)
	if err != nil {
		return err
	}
	fmt.Printf("verifying key: %s\nproving key:   %s\n", vkPath, filepath.Join(*dir, zkid.ProvingKeyFile))
	return nil
}

func credentialFlags(fs *flag.FlagSet) (credential, domain *string) {
	credential = fs.String("credential", os.Getenv("ZK_CREDENTIAL"), "identity credential (defaults to $ZK_CREDENTIAL)")
	domain = fs.String("domain", "uni.edu", "domain claimed by the credential")
	return credential, domain
}

func runPubkey(args []string) error {
	fs := flag.NewFlagSet("pubkey", flag.ExitOnError)
	credential, domain := credentialFlags(fs)
	fs.Parse(args)

	if *credential == "" {
		return fmt.Errorf("a credential is required")
	}
	fmt.Println(zkid.Commit(*credential, *domain))
	return nil
}

func runStart(args []string) error {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	server := fs.String("server", "http://localhost:3000", "server base URL")
	white := fs.String("white", "", "white's public key")
	black := fs.String("black", "", "black's public key")
	fen := fs.String("fen", "", "starting position (default: initial position)")
	fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := client.New(*server, *white).Start(ctx, *white, *black, *fen)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runMove(args []string) error {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	server := fs.String("server", "http://localhost:3000", "server base URL")
	gameID := fs.String("game", "", "game id")
	provingKey := fs.String("proving-key", filepath.Join("data/keys", zkid.ProvingKeyFile), "proving key file")
	credential, domain := credentialFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 || *gameID == "" || *credential == "" {
		return fmt.Errorf("usage: zkchess move -game ID -credential C [flags] <uci move>")
	}
	m, err := model.ParseMove(fs.Arg(0))
	if err != nil {
		return err
	}

	prover, err := zkid.LoadProver(*provingKey)
	if err != nil {
		return err
	}

	publicKey := zkid.Commit(*credential, *domain)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := client.New(*server, publicKey)
	state, err := c.State(ctx, *gameID)
	if err != nil {
		return err
	}

	proof, err := prover.Prove(*credential, game.StatementFor(*gameID, state, m, publicKey, *domain))
	if err != nil {
		return err
	}

	result, err := c.Move(ctx, *gameID, ws.MovePayload{Move: m.String(), PublicKey: publicKey, Proof: proof})
	if err != nil {
		return err
	}
	if result.NextState != nil {
		fmt.Println(model.ToFEN(*result.NextState))
	}
	return nil
}

func runAct(args []string) error {
	fs := flag.NewFlagSet("act", flag.ExitOnError)
	server := fs.String("server", "http://localhost:3000", "server base URL")
	gameID := fs.String("game", "", "game id")
	provingKey := fs.String("proving-key", filepath.Join("data/keys", zkid.ProvingKeyFile), "proving key file")
	credential, domain := credentialFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 || *gameID == "" || *credential == "" {
		return fmt.Errorf("usage: zkchess act -game ID -credential C [flags] <action>")
	}
	action := model.LifecycleAction(fs.Arg(0))

	prover, err := zkid.LoadProver(*provingKey)
	if err != nil {
		return err
	}

	publicKey := zkid.Commit(*credential, *domain)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c := client.New(*server, publicKey)
	snap, err := c.Snapshot(ctx, *gameID)
	if err != nil {
		return err
	}

	proof, err := prover.Prove(*credential, game.ActionStatementFor(*gameID, snap.State, snap.Actions, action, publicKey, *domain))
	if err != nil {
		return err
	}

	l, err := c.Act(ctx, *gameID, action, ws.ActionPayload{PublicKey: publicKey, Proof: proof})
	if err != nil {
		return err
	}
	fmt.Println(l.Status)
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	server := fs.String("server", "http://localhost:3000", "server base URL")
	gameID := fs.String("game", "", "game id")
	key := fs.String("key", "", "your public key")
	origin := fs.String("origin", "http://localhost:5173", "Origin header sent on the WebSocket handshake")
	fs.Parse(args)

	ctx := context.Background()
	stream, err := client.New(*server, *key).Subscribe(ctx, *gameID, *origin)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		snap, err := stream.WaitState(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", snap.FEN, snap.Status)
	}
}
