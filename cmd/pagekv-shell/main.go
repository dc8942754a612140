// Command pagekv-shell is a small REPL for poking at the frag/node/
// version-chain core directly: allocate pages, link frags onto them,
// and print what they materialize to. It is a debug surface, not a
// product.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/lirlia/pagekv"
	"github.com/lirlia/pagekv/pagestore"
	"go.uber.org/zap"
)

var (
	store *pagestore.MemoryStore
	cfg   pagekv.Config
)

func concatMerge(_ pagekv.Bytes, existing *pagekv.Bytes, incoming pagekv.Bytes) *pagekv.Bytes {
	if existing == nil {
		out := incoming.Clone()
		return &out
	}
	out := append(append(pagekv.Bytes{}, (*existing)...), incoming...)
	return &out
}

func executor(in string) {
	fields := strings.Fields(strings.TrimSpace(in))
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "quit", "exit", ".quit", ".exit":
		fmt.Println("Bye!")
		os.Exit(0)
	case "alloc-leaf":
		pid, _ := store.AllocatePage(pagekv.BaseFrag{Node: &pagekv.Node{
			Data: pagekv.Data{Kind: pagekv.DataLeaf},
		}})
		fmt.Printf("allocated leaf page %d\n", pid)
	case "alloc-versions":
		pid, _ := store.AllocatePage(pagekv.VersionsFrag{Versions: pagekv.NewVersions()})
		fmt.Printf("allocated versions page %d\n", pid)
	case "insert":
		if len(fields) != 4 {
			fmt.Println("usage: insert <pid> <key> <version-pid>")
			return
		}
		pid := mustPid(fields[1])
		vpid := mustPid(fields[3])
		must(store.Link(pid, pagekv.InsertVersionFrag{Key: pagekv.Bytes(fields[2]), VersionChainPid: vpid}, store.Pin()))
		fmt.Println("ok")
	case "remove":
		if len(fields) != 3 {
			fmt.Println("usage: remove <pid> <key>")
			return
		}
		must(store.Link(mustPid(fields[1]), pagekv.RemoveVersionFrag{Key: pagekv.Bytes(fields[2])}, store.Pin()))
		fmt.Println("ok")
	case "show-node":
		if len(fields) != 2 {
			fmt.Println("usage: show-node <pid>")
			return
		}
		base, chain, err := store.Get(mustPid(fields[1]), store.Pin())
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		node, err := pagekv.MaterializeNode(base, chain)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("%+v\n", node)
	case "vset":
		if len(fields) != 4 {
			fmt.Println("usage: vset <pid> <ts> <val>")
			return
		}
		ts := mustTs(fields[2])
		must(store.Link(mustPid(fields[1]), pagekv.VersionPendingSetFrag{Ts: ts, Val: pagekv.Bytes(fields[3])}, store.Pin()))
		fmt.Println("staged")
	case "vcommit":
		if len(fields) != 3 {
			fmt.Println("usage: vcommit <pid> <ts>")
			return
		}
		must(store.Link(mustPid(fields[1]), pagekv.VersionCommitFrag{Ts: mustTs(fields[2])}, store.Pin()))
		fmt.Println("committed")
	case "vget":
		if len(fields) != 3 {
			fmt.Println("usage: vget <pid> <ts>")
			return
		}
		ts, val, err := pagekv.PullVersion(store, mustPid(fields[1]), nil, mustTs(fields[2]), cfg, store.Pin())
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if val == nil {
			fmt.Printf("(ts=%d) <none>\n", ts)
			return
		}
		fmt.Printf("(ts=%d) %q\n", ts, string(*val))
	default:
		fmt.Println("unknown command:", fields[0])
	}
}

func mustPid(s string) pagekv.PageId {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fmt.Println("bad page id:", s)
		return 0
	}
	return pagekv.PageId(n)
}

func mustTs(s string) pagekv.Timestamp {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		fmt.Println("bad timestamp:", s)
		return 0
	}
	return pagekv.Timestamp(n)
}

func must(err error) {
	if err != nil {
		fmt.Println("error:", err)
	}
}

func completer(_ prompt.Document) []prompt.Suggest {
	return []prompt.Suggest{
		{Text: "alloc-leaf"}, {Text: "alloc-versions"},
		{Text: "insert"}, {Text: "remove"}, {Text: "show-node"},
		{Text: "vset"}, {Text: "vcommit"}, {Text: "vget"}, {Text: "quit"},
	}
}

func main() {
	debug := flag.Bool("debug", false, "enable verbose zap logging")
	flag.Parse()

	logger := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	store = pagestore.NewMemoryStore(logger)
	cfg = pagekv.Config{MergeOperator: concatMerge, MaxNodeSizeBytes: 4096, Logger: logger}

	fmt.Println("pagekv-shell -- type 'quit' to exit")
	prompt.New(executor, completer, prompt.OptionPrefix("pagekv> ")).Run()
}
