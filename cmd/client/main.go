package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"semaphore/internal/network"
)

// Клиент максимально колхозный, т.к предполагается что у нашей БД может быть множество клиентов и качество их гарантировать нельзя
// Поэтому тут нет никаких ограничений и проверок на что либо
func main() {
	logger, _ := zap.NewProduction()

	address := flag.String("address", "localhost:3223", "tcp server address")
	hammer := flag.Int("hammer", 0, "fire N concurrent connections instead of the interactive prompt")
	flag.Parse()

	if *hammer > 0 {
		runHammer(logger, *address, *hammer)
		return
	}

	client, err := network.NewTCPClient(*address)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			logger.Fatal("error on disconnect", zap.Error(err))
		}
	}()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		queryString, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				logger.Error("server connection closed",
					zap.Error(err),
				)
			} else {
				logger.Error("cannot read query",
					zap.String("query", queryString),
					zap.Error(err),
				)
			}

			return
		}

		response, err := client.Execute(queryString)
		if err != nil {
			logger.Error("cannot execute query",
				zap.String("query", queryString),
				zap.Error(err),
			)

			return
		}

		fmt.Println(string(response))
	}
}

// runHammer opens connections faster than the server's session limit and
// reports how many got served versus turned away.
func runHammer(logger *zap.Logger, address string, connections int) {
	var served, rejected atomic.Int64

	g := new(errgroup.Group)
	for i := 0; i < connections; i++ {
		g.Go(func() error {
			client, err := network.NewTCPClient(address)
			if err != nil {
				rejected.Add(1)
				return nil
			}
			defer func() {
				_ = client.Disconnect()
			}()

			response, err := client.Execute("STATUS")
			if err != nil || strings.HasPrefix(string(response), "[error]") {
				rejected.Add(1)
				return nil
			}

			served.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("hammer run failed", zap.Error(err))
	}

	fmt.Printf("connections: %d, served: %d, rejected: %d\n", connections, served.Load(), rejected.Load())
}
