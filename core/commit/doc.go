// Package commit builds and interprets the day-ahead unit commitment
// program. A fleet of thermal plants, batteries, renewables and demand
// blocks is turned into a mixed-integer program whose optimum meets demand
// exactly in every hour at minimum cost:
//
//   - Classify partitions units by role.
//   - ResolveProfiles maps every hour to demand, wind and solar multipliers.
//   - Build declares the decision space, the cost model and the constraint
//     rows, and reformulates the battery charge/discharge disjunction as a
//     convex hull with one binary per battery-hour.
//   - Extract turns solved column values back into a Schedule.
//
// Scheduler chains these steps with a solver for a single run.
package commit
