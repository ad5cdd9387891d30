// Package department defines the nine production stages a jewelry order moves
// through: CAD, PRINT, CASTING, FILLING, MEENA, POLISH_1, SETTING, POLISH_2 and
// ADDITIONAL. The order is fixed and not configurable.
package department
