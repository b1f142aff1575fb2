package rules

import "github.com/dtnitsch/qgc-crawler/models"

var (
	qgc    = string(models.DocumentQGC)
	edital = string(models.DocumentEdital)
)

// Classification lists the phrases that signal each document type.
var Classification = Table{
	{Phrase: "quadro geral de credores", Tag: qgc, Weight: 10},
	{Phrase: "qgc", Tag: qgc, Weight: 6},
	{Phrase: "relacao de credores", Tag: qgc, Weight: 6},
	{Phrase: "relacao nominal de credores", Tag: qgc, Weight: 6},
	{Phrase: "credores quirografarios", Tag: qgc, Weight: 4},
	{Phrase: "credores trabalhistas", Tag: qgc, Weight: 4},
	{Phrase: "credores com garantia real", Tag: qgc, Weight: 4},
	{Phrase: "administrador judicial", Tag: qgc, Weight: 3},
	{Phrase: "recuperacao judicial", Tag: qgc, Weight: 2},
	{Phrase: "falencia", Tag: qgc, Weight: 2},

	{Phrase: "edital", Tag: edital, Weight: 8},
	{Phrase: "publicacao", Tag: edital, Weight: 3},
	{Phrase: "art. 7º", Tag: edital, Weight: 4},
	{Phrase: "artigo 7º", Tag: edital, Weight: 4},
	{Phrase: "§ 1º do art. 7º", Tag: edital, Weight: 5},
	{Phrase: "prazo de 15 (quinze) dias", Tag: edital, Weight: 5},
	{Phrase: "habilitacoes", Tag: edital, Weight: 3},
	{Phrase: "divergencias", Tag: edital, Weight: 3},
	{Phrase: "ficam intimados", Tag: edital, Weight: 3},
}

// Headings maps credit-class heading vocabulary to section names. Explicit
// class numbers come first so a line naming both resolves to the class.
var Headings = Table{
	{Phrase: "classe iv", Tag: string(models.SectionOther), Weight: 1},
	{Phrase: "classe iii", Tag: string(models.SectionUnsecuredCreditors), Weight: 1},
	{Phrase: "classe ii", Tag: string(models.SectionSecuredCreditors), Weight: 1},
	{Phrase: "classe i", Tag: string(models.SectionLaborCreditors), Weight: 1},

	{Phrase: "derivados da legislacao do trabalho", Tag: string(models.SectionLaborCreditors), Weight: 1},
	{Phrase: "trabalhistas", Tag: string(models.SectionLaborCreditors), Weight: 1},
	{Phrase: "trabalhista", Tag: string(models.SectionLaborCreditors), Weight: 1},
	{Phrase: "garantia real", Tag: string(models.SectionSecuredCreditors), Weight: 1},
	{Phrase: "quirografarios", Tag: string(models.SectionUnsecuredCreditors), Weight: 1},
	{Phrase: "quirografario", Tag: string(models.SectionUnsecuredCreditors), Weight: 1},
	{Phrase: "microempresas", Tag: string(models.SectionOther), Weight: 1},
	{Phrase: "empresas de pequeno porte", Tag: string(models.SectionOther), Weight: 1},
	{Phrase: "me/epp", Tag: string(models.SectionOther), Weight: 1},
}
