// Package pages assembles the final document: realized children split
// into page runs at page breaks, each run's flow content distributes
// into one region per page, and finalization attaches margins,
// marginals, and page numbers. Runs are independent, so they lay out in
// parallel and join in source order.
package pages
