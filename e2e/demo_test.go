//go:build e2e && unix

package main

import (
	"testing"
	"time"
)

func TestDemoLiveFilter(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send(KeyFilter)
	term.Expect("Filter:")
	term.Type("xadrez")
	term.Send(KeyEnter)

	term.Expect("[Filter: xadrez]")
	term.Expect("1 resultado encontrado")
	term.Expect("Torneio de Xadrez")
}

func TestDemoFilterMatchesDescription(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	// only Maria Silva's description mentions literatura
	term.Filter("literatura")
	term.Expect("1 resultado encontrado")
	term.Expect("Maria Silva")
}

func TestDemoEmptyStateAndEscape(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Filter("zzzz")
	term.Expect("Nenhum resultado encontrado")
	term.Expect("Tente ajustar sua busca ou filtros")

	mark := term.Mark()
	term.Send(KeyEsc)
	term.ExpectAfter(mark, "10 resultados encontrados")
}

func TestDemoCategoryCycle(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send("c")
	term.Expect("[Clube]")
	term.Expect("4 resultados encontrados")
}

func TestDemoSelectionCount(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send(KeySpace, KeyDown, KeySpace)
	term.Expect("2 selected")
}

func TestDemoHelpPager(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send("?")
	term.Expect("quotedesk help")

	mark := term.Mark()
	term.Send(KeyQuit)
	time.Sleep(300 * time.Millisecond)
	term.Send(KeyDown)
	term.ExpectAfter(mark, "10 resultados encontrados")
}

func TestDemoRecordDetail(t *testing.T) {
	t.Parallel()
	term := startDemo(t)

	term.Send(KeyDown, KeyEnter)
	term.Expect("Clube de Fotografia")
	term.Expect("Description")
}
