package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"harrow/internal/models"
	"harrow/internal/user"
)

// handleAdminCommands runs "harrow admin <command>" actions against
// the database before the server starts.
func handleAdminCommands(db *sql.DB) {
	if len(flag.Args()) == 0 || flag.Arg(0) != "admin" {
		return
	}

	users, err := user.NewRepository(db)
	if err != nil {
		log.Fatal(err)
	}

	switch flag.Arg(1) {
	case "adduser":
		addUser(users)
	default:
		fmt.Println("usage: harrow admin adduser")
	}
}

func addUser(users *user.Repository) {
	fmt.Println("Add user to system")
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("ID(E-mail) >>> ")
	uid, _ := reader.ReadString('\n')
	fmt.Print("Name >>> ")
	name, _ := reader.ReadString('\n')

	var password string
	for {
		fmt.Print("Password >>> ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print("Password(Confirm) >>> ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			log.Fatal(err)
		}
		if string(pw) == string(confirm) {
			password = string(pw)
			break
		}
		fmt.Println("Password is different from Password(Confirm)")
	}

	err := users.Add(context.Background(),
		strings.TrimSpace(uid), strings.TrimSpace(name), password, models.LevelWriter)
	if err != nil {
		fmt.Println("NG:", err)
		return
	}
	fmt.Println("OK")
}
