package help

// ColdstartYAML is printed by the quickstart command.
const ColdstartYAML = `# qgc-crawler Quick Start

commands:
  match: |
    qgc-crawler match --document qgc.pdf --clients clientes.xlsx
  match_strict: |
    qgc-crawler match --document qgc.pdf --clients clientes.txt --tolerance 85 --section-scoping
  match_url: |
    qgc-crawler match --document https://example.jus.br/edital.pdf --clients clientes.xlsx -o resultados.xlsx
  inspect: |
    qgc-crawler inspect --document qgc.pdf
  cache_clear_one: |
    qgc-crawler cache clear --document qgc.pdf
  cache_clear_all: |
    qgc-crawler cache clear
  cache_list: |
    qgc-crawler --cache-backend sqlite --cache-dir qgc.db cache list
  runs: |
    qgc-crawler cache runs --limit 10

strategies:
  exact: "Normalized name appears verbatim (score 100)"
  word_based: "Significant words nearby, in order (score up to 95)"
  fuzzy_strict: "Edit-distance similarity, never below 88"
  context_window: "Best match re-scored by nearby values and CPF/CNPJ"
  data_driven: "Name recovered from the line of a valid CPF/CNPJ (floor 75)"

tolerance:
  - "Recommended minimum score: 80-85"
  - "Accepted range: 50-100"
  - "short_name_boost adds 10 (up to 98) for names with one significant word"
  - "section_scoping keeps each match inside its credit-class section"

config: |
  tolerance:
    minimum_score: 80
    short_name_boost: true
    section_scoping: false
  cache:
    backend: file
    path: .qgc-cache
  classifier:
    header_pages: 5
    min_confidence: 40
    language_check: false
  workers: 4
  batch_size: 50

error_behavior:
  - "Unreadable document or client list: exit code 1 or 2, nothing written"
  - "Cache failures: logged, document re-extracted"
  - "Ctrl-C during match: finished clients are reported with cancelled: true"
  - "Exit codes: 0=success, 1=configuration error, 2=processing error"
`
