package help

const ColdstartYAML = `# raa Quick Start

input_formats:
  csv: "Columns id, name, aspectsCount (or aspects_count), aspects"
  json: "Array of categories or an API {total, data} envelope"
  html: "First <table> of the page, header row required"

aspect_fields:
  - "Python-style list literal: ['Product/Price', 'Service/Staff']"
  - "Comma separated text: Product/Price, Service/Staff"
  - "JSON list of names or {name: ...} objects"
  - "Blank or missing = no aspects"

commands:
  import_file: |
    raa import --file review_categories.csv

  import_api: |
    raa import --api --base-url https://host/reviewCategory --shared-secret $SECRET

  analyze_file_directly: |
    raa summary --file review_categories.csv

  frequency: |
    raa frequency --top 10
    raa frequency --order asc --format csv

  matrix: |
    raa matrix --max-aspects 50 --max-categories 20 --format csv

  category: |
    raa category "Electronics"

  export: |
    raa export --output-dir results --formats csv,json,html --links

  reviews: |
    raa reviews --file reviews.csv --view pivot

  serve: |
    raa serve --addr :5001 --api-key $KEY

dataset_commands:
  datasets: "List stored datasets, newest first"
  datasets_show: "Show one dataset (default latest)"
  datasets_delete: "Delete a dataset and its categories"

dataset_invariants:
  - "Same normalized rows = same dataset ID, the import is a cache hit"
  - "Analysis commands use the latest dataset unless --dataset or --file is given"
  - "Sampling (--max-rows, --seed) keeps input order and is repeatable"

config:
  file: "./config.yaml or --config path"
  env: "RAA_* variables, e.g. RAA_MAX_ROWS, RAA_API_SHARED_SECRET"
  precedence: "flags > env > file > defaults"

error_behavior:
  - "Missing name or aspects column: import fails, nothing is stored"
  - "Malformed aspect literals fall back to comma splitting"
  - "API page failure aborts the import"
  - "Exit codes: 0=success, 1=failure"
`
