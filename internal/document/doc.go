// Package document turns resume data into HTML, PDF and XLSX documents.
//
// HTML output renders a template through the template engine after the layout
// planner has ordered its sections. PDF output prints that HTML with a PDFEngine,
// normally a headless Chromium. XLSX output is the growth plan tracker workbook.
//
// Failures carry an ErrorKind; AsGoError maps them onto go-errors categories.
package document
